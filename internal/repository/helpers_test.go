package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/party-rental/internal/model"
)

const sqliteSchema = `
CREATE TABLE cadastro (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cliente TEXT NOT NULL,
    telefone TEXT NOT NULL,
    documento TEXT NULL,
    endereco TEXT NOT NULL DEFAULT '',
    bairro TEXT NOT NULL DEFAULT '',
    lista_negra BOOLEAN NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);
CREATE TABLE estoque (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item TEXT NOT NULL UNIQUE,
    codigo_interno TEXT NULL,
    disponivel INTEGER NOT NULL DEFAULT 0 CHECK (disponivel >= 0),
    reservado INTEGER NOT NULL DEFAULT 0 CHECK (reservado >= 0),
    preco DECIMAL(12,2) NOT NULL DEFAULT 0
);
CREATE TABLE reservas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cliente_id INTEGER NOT NULL,
    item_id INTEGER NOT NULL,
    item TEXT NOT NULL,
    quantidade INTEGER NOT NULL,
    data_evento DATE NOT NULL,
    data_devolucao DATE NOT NULL,
    status TEXT NOT NULL DEFAULT 'Pendente',
    forma_pagamento TEXT NULL,
    preco_unitario DECIMAL(12,2) NOT NULL DEFAULT 0,
    valor_total DECIMAL(12,2) NULL,
    created_at DATETIME NOT NULL,
    devolvido_em DATETIME NULL
);
CREATE TABLE movimentacao_caixa (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    descricao TEXT NOT NULL,
    valor DECIMAL(12,2) NOT NULL,
    tipo TEXT NOT NULL,
    categoria TEXT NOT NULL DEFAULT 'Outros',
    cliente_id INTEGER NULL,
    reserva_id INTEGER NULL,
    data DATETIME NOT NULL
);
CREATE TABLE movimentacoes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    item_id INTEGER NOT NULL,
    nome TEXT NOT NULL,
    quantidade INTEGER NOT NULL,
    tipo TEXT NOT NULL,
    data DATETIME NOT NULL
);
CREATE TABLE operadores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    nome TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'STAFF',
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL
);
CREATE TABLE refresh_tokens (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operator_id INTEGER NOT NULL,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME NULL,
    created_at DATETIME NOT NULL
);`

// setupTestDB opens a private in-memory SQLite database with the rental schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	return db
}

// newTestStore returns a Store whose locking reads work on SQLite.
func newTestStore(t *testing.T) *Store {
	s := NewStore(setupTestDB(t))
	s.Customers.lock = ""
	s.Inventory.lock = ""
	s.Reservations.lock = ""
	return s
}

func date(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedCustomer(t *testing.T, s *Store, name string) model.Customer {
	t.Helper()
	c := model.Customer{Name: name, Phone: "11 99999-0000", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateCustomer(context.Background(), &c))
	return c
}

func seedItem(t *testing.T, s *Store, name string, available int64, price string) model.InventoryItem {
	t.Helper()
	it := model.InventoryItem{Name: name, Available: available, UnitPrice: decimal.RequireFromString(price)}
	err := s.WithTx(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.CreateItem(ctx, &it)
	})
	require.NoError(t, err)
	return it
}
