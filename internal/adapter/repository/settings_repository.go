package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/loja-backend/internal/domain/pricing"
	"github.com/hugohenrick/loja-backend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

// Erros específicos do repositório
var (
	ErrSettingsNotFound = errors.New("configuração de precificação não encontrada")
)

// PostgresSettingsRepository implementa a interface pricing.Repository usando PostgreSQL
type PostgresSettingsRepository struct {
	db *database.PostgresDB
}

// NewPostgresSettingsRepository cria uma nova instância de PostgresSettingsRepository
func NewPostgresSettingsRepository(db *database.PostgresDB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{
		db: db,
	}
}

// Get implementa pricing.Repository.Get
func (r *PostgresSettingsRepository) Get(ctx context.Context) (*pricing.Settings, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	query := `
		SELECT id, tax_percent, processor_percent, processor_fixed_fee,
		       default_margin_percent, max_installments, no_fee_installments,
		       installment_interest_percent, min_installment_value, updated_at
		FROM pricing_settings
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var s pricing.Settings
	err = conn.QueryRow(ctx, query).Scan(
		&s.ID,
		&s.TaxPercent,
		&s.ProcessorPercent,
		&s.ProcessorFixedFee,
		&s.DefaultMarginPercent,
		&s.MaxInstallments,
		&s.NoFeeInstallments,
		&s.InstallmentInterestPercent,
		&s.MinInstallmentValue,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("falha ao buscar configuração: %w", err)
	}

	return &s, nil
}

// Save implementa pricing.Repository.Save
func (r *PostgresSettingsRepository) Save(ctx context.Context, settings *pricing.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}
	settings.UpdatedAt = time.Now()

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO pricing_settings (
				id, tax_percent, processor_percent, processor_fixed_fee,
				default_margin_percent, max_installments, no_fee_installments,
				installment_interest_percent, min_installment_value, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				tax_percent = EXCLUDED.tax_percent,
				processor_percent = EXCLUDED.processor_percent,
				processor_fixed_fee = EXCLUDED.processor_fixed_fee,
				default_margin_percent = EXCLUDED.default_margin_percent,
				max_installments = EXCLUDED.max_installments,
				no_fee_installments = EXCLUDED.no_fee_installments,
				installment_interest_percent = EXCLUDED.installment_interest_percent,
				min_installment_value = EXCLUDED.min_installment_value,
				updated_at = EXCLUDED.updated_at
		`

		_, err := tx.Exec(ctx, query,
			settings.ID,
			settings.TaxPercent,
			settings.ProcessorPercent,
			settings.ProcessorFixedFee,
			settings.DefaultMarginPercent,
			settings.MaxInstallments,
			settings.NoFeeInstallments,
			settings.InstallmentInterestPercent,
			settings.MinInstallmentValue,
			settings.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("falha ao gravar configuração: %w", err)
		}

		return nil
	})
}
