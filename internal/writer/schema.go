package writer

import (
	"fmt"
	"strings"
)

// Column is one typed column of a destination table.
type Column struct {
	Name string
	Type string
}

// TableSchema describes a destination table.
type TableSchema struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
}

// Schemas registers every destination table, keyed by name.
var Schemas = map[string]TableSchema{
	"stock_prices": {
		Name: "stock_prices",
		Columns: []Column{
			{"date", "date"},
			{"ticker", "varchar(6)"},
			{"open", "numeric(12,4)"},
			{"high", "numeric(12,4)"},
			{"low", "numeric(12,4)"},
			{"close", "numeric(12,4)"},
			{"volume", "bigint"},
		},
		PrimaryKey: []string{"date", "ticker"},
	},
	"news_sentiment": {
		Name: "news_sentiment",
		Columns: []Column{
			{"date", "date"},
			{"time", "text"},
			{"ticker", "varchar(6)"},
			{"title", "varchar(250)"},
			{"source", "varchar(50)"},
			{"sentiment_score", "numeric(8,6)"},
		},
		PrimaryKey: []string{"date", "time", "ticker", "title", "source"},
	},
	"fundamentals": {
		Name: "fundamentals",
		Columns: []Column{
			{"fiscal_date_ending", "date"},
			{"ticker", "varchar(6)"},
			{"total_assets", "bigint"},
			{"total_liabilities", "bigint"},
			{"total_shareholder_equity", "bigint"},
			{"total_revenue", "bigint"},
			{"gross_profit", "bigint"},
			{"operating_income", "bigint"},
			{"net_income", "bigint"},
			{"operating_cashflow", "bigint"},
			{"capital_expenditures", "bigint"},
			{"reported_eps", "numeric(10,2)"},
		},
		PrimaryKey: []string{"fiscal_date_ending", "ticker"},
	},
	"economic_indicators": {
		Name: "economic_indicators",
		Columns: []Column{
			{"date", "date"},
			{"cpi", "numeric(10,3)"},
			{"inflation", "numeric(12,8)"},
			{"retail_sales", "bigint"},
			{"durables", "bigint"},
			{"unemployment", "numeric(6,2)"},
			{"nonfarm_payroll", "bigint"},
		},
		PrimaryKey: []string{"date"},
	},
	"treasury_yields": {
		Name: "treasury_yields",
		Columns: []Column{
			{"date", "date"},
			{"yield_3month", "numeric(6,2)"},
			{"yield_2year", "numeric(6,2)"},
			{"yield_5year", "numeric(6,2)"},
			{"yield_7year", "numeric(6,2)"},
			{"yield_10year", "numeric(6,2)"},
			{"yield_30year", "numeric(6,2)"},
		},
		PrimaryKey: []string{"date"},
	},
	"federal_funds": {
		Name: "federal_funds",
		Columns: []Column{
			{"date", "date"},
			{"rate", "numeric(6,2)"},
		},
		PrimaryKey: []string{"date"},
	},
}

// ColumnNames returns the ordered column names.
func (s TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateDDL returns the idempotent table definition.
func (s TableSchema) CreateDDL() string {
	defs := make([]string, 0, len(s.Columns)+1)
	for _, c := range s.Columns {
		defs = append(defs, fmt.Sprintf("%q %s", c.Name, c.Type))
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", quoteJoin(s.PrimaryKey)))

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", s.Name, strings.Join(defs, ", "))
}

// InsertSQL returns the parameterized insert with conflict skipping.
func (s TableSchema) InsertSQL() string {
	placeholders := make([]string, len(s.Columns))
	for i := range s.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %q (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		s.Name,
		quoteJoin(s.ColumnNames()),
		strings.Join(placeholders, ", "),
		quoteJoin(s.PrimaryKey),
	)
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
