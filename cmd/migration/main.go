package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hugohenrick/loja-backend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar conexão com o banco
	db, err := database.NewPostgresDB(database.NewPostgresConfigFromEnv())
	if err != nil {
		log.Fatalf("Erro ao conectar com o banco de dados: %v", err)
	}
	defer db.Close()

	// Executar as migrações
	if err := runMigrations(db.Pool()); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}

func runMigrations(db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	conn, err := db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("erro ao obter conexão: %w", err)
	}
	defer conn.Release()

	// Verificar se a tabela de migrações existe
	if err := createMigrationsTable(ctx, conn); err != nil {
		return fmt.Errorf("erro ao criar tabela de migrações: %w", err)
	}

	// Verificar última migração executada
	lastMigration, err := getLastMigration(ctx, conn)
	if err != nil {
		return fmt.Errorf("erro ao verificar última migração: %w", err)
	}

	log.Printf("Última migração executada: %s", lastMigration)

	// Lista de migrações
	migrations := []migration{
		{
			version: "001_create_users",
			up: `
				-- Tabela de usuários do painel
				CREATE TABLE IF NOT EXISTS users (
					id UUID PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL UNIQUE,
					password VARCHAR(255) NOT NULL,
					role VARCHAR(50) NOT NULL,
					status VARCHAR(20) NOT NULL,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);

				-- Índices
				CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_users_status ON users(status);
			`,
		},
		{
			version: "002_create_pricing_settings",
			up: `
				-- Tabela de configuração de precificação da loja
				CREATE TABLE IF NOT EXISTS pricing_settings (
					id UUID PRIMARY KEY,
					tax_percent DECIMAL(5,2) NOT NULL DEFAULT 0,
					processor_percent DECIMAL(5,2) NOT NULL DEFAULT 0,
					processor_fixed_fee DECIMAL(15,2) NOT NULL DEFAULT 0,
					default_margin_percent DECIMAL(7,2) NOT NULL DEFAULT 30,
					max_installments INTEGER NOT NULL DEFAULT 12,
					no_fee_installments INTEGER NOT NULL DEFAULT 3,
					installment_interest_percent DECIMAL(5,2) NOT NULL DEFAULT 0,
					min_installment_value DECIMAL(15,2) NOT NULL DEFAULT 5,
					updated_at TIMESTAMP NOT NULL,
					CHECK (no_fee_installments <= max_installments)
				);
			`,
		},
		{
			version: "003_create_products",
			up: `
				-- Tabela de produtos
				CREATE TABLE IF NOT EXISTS products (
					id UUID PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT,
					has_variations BOOLEAN NOT NULL DEFAULT false,
					stock INTEGER NOT NULL DEFAULT 0,
					active BOOLEAN NOT NULL DEFAULT true,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);

				-- Índices
				CREATE INDEX IF NOT EXISTS idx_products_active ON products(active);
				CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
			`,
		},
		{
			version: "004_create_variants",
			up: `
				-- Tabela de variações
				CREATE TABLE IF NOT EXISTS variants (
					id UUID PRIMARY KEY,
					product_id UUID NOT NULL REFERENCES products(id),
					sku VARCHAR(50) NOT NULL UNIQUE,
					attributes JSONB NOT NULL DEFAULT '[]',
					cost_price DECIMAL(15,2) NOT NULL DEFAULT 0,
					stock INTEGER NOT NULL DEFAULT 0,
					serial_control BOOLEAN NOT NULL DEFAULT false,
					active BOOLEAN NOT NULL DEFAULT true,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				);

				-- Índices
				CREATE INDEX IF NOT EXISTS idx_variants_product_id ON variants(product_id);
				CREATE INDEX IF NOT EXISTS idx_variants_active ON variants(active);
			`,
		},
		{
			version: "005_create_variant_serials",
			up: `
				-- Tabela de números de série por variação
				CREATE TABLE IF NOT EXISTS variant_serials (
					variant_id UUID NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
					serial VARCHAR(100) NOT NULL,
					PRIMARY KEY (variant_id, serial)
				);

				-- Índices
				CREATE INDEX IF NOT EXISTS idx_variant_serials_variant_id ON variant_serials(variant_id);
			`,
		},
		{
			version: "006_seed_pricing_settings",
			up: `
				-- Configuração inicial de precificação
				INSERT INTO pricing_settings (
					id, tax_percent, processor_percent, processor_fixed_fee,
					default_margin_percent, max_installments, no_fee_installments,
					installment_interest_percent, min_installment_value, updated_at
				)
				SELECT gen_random_uuid(), 0, 0, 0, 30, 12, 3, 0, 5, now()
				WHERE NOT EXISTS (SELECT 1 FROM pricing_settings);
			`,
		},
	}

	// Executar migrações pendentes
	for _, m := range migrations {
		if m.version <= lastMigration {
			log.Printf("Pulando migração %s (já executada)", m.version)
			continue
		}

		log.Printf("Executando migração %s", m.version)

		// Iniciar transação
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("erro ao iniciar transação: %w", err)
		}

		// Executar migração
		_, err = tx.Exec(ctx, m.up)
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("Erro ao fazer rollback: %v", rbErr)
			}
			return fmt.Errorf("erro ao executar migração %s: %w", m.version, err)
		}

		// Registrar migração executada
		_, err = tx.Exec(ctx,
			"INSERT INTO migrations (version, executed_at) VALUES ($1, $2)",
			m.version, time.Now())
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("Erro ao fazer rollback: %v", rbErr)
			}
			return fmt.Errorf("erro ao registrar migração %s: %w", m.version, err)
		}

		// Commit
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("erro ao fazer commit da migração %s: %w", m.version, err)
		}

		log.Printf("Migração %s executada com sucesso", m.version)
	}

	return nil
}

func createMigrationsTable(ctx context.Context, conn *pgxpool.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(100) PRIMARY KEY,
			executed_at TIMESTAMP NOT NULL
		)
	`
	_, err := conn.Exec(ctx, query)
	return err
}

func getLastMigration(ctx context.Context, conn *pgxpool.Conn) (string, error) {
	var version string
	err := conn.QueryRow(ctx,
		"SELECT version FROM migrations ORDER BY executed_at DESC LIMIT 1").Scan(&version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return version, nil
}

type migration struct {
	version string
	up      string
}
