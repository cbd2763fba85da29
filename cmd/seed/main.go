// Command seed crea el usuario admin y carga productos con su stock inicial desde un CSV.
//
// Uso: go run ./cmd/seed [-latin1] [products.csv]
//
// Formato (con encabezado): sku,name,category,purchase_price,selling_price,min_stock,initial_stock,description
// Los SKU que ya existen se omiten. El stock inicial entra al libro como IN "Initial load".
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stock-billing-api/internal/application/auth"
	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/application/usecase"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/provider"
	"github.com/jhoicas/stock-billing-api/pkg/config"
	"github.com/jhoicas/stock-billing-api/pkg/logger"
)

const initialLoadNote = "Initial load"

// columnAliases acepta los nombres de columna de exportaciones anteriores.
var columnAliases = map[string]string{
	"stock":           "initial_stock",
	"current_stock":   "initial_stock",
	"min_stock_level": "min_stock",
}

type productRow struct {
	line    int
	product dto.CreateProductRequest
	stock   int
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportado desde Excel)")
	flag.Parse()
	file := "data/products.csv"
	if flag.NArg() > 0 {
		file = flag.Arg(0)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	repos, err := provider.New(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.Close()

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	initRes, err := authUC.EnsureDefaultAdmin(ctx, cfg.App.AdminDefaultPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}
	log.Info().Bool("created", initRes.Created).Str("username", initRes.Username).Msg("usuario admin")

	f, err := os.Open(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readRows(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	productUC := usecase.NewProductUseCase(repos.Products, cfg.Stock.DefaultMinLevel)
	stockUC := inventory.NewStockLedgerUseCase(repos.TxRunner, repos.StockTransactions, log.Component("stock"))
	created, skipped := seed(ctx, productUC, stockUC, rows, log.Component("seed"))

	log.Info().Int("created", created).Int("skipped", skipped).Int("rows", len(rows)).Msg("seed finalizado")
}

// seed crea cada producto y registra su stock inicial. Un error en una fila no detiene el resto.
func seed(ctx context.Context, productUC *usecase.ProductUseCase, stockUC *inventory.StockLedgerUseCase, rows []productRow, log zerolog.Logger) (created, skipped int) {
	for _, row := range rows {
		p, err := productUC.Create(ctx, row.product)
		if errors.Is(err, domain.ErrDuplicate) {
			skipped++
			log.Debug().Str("sku", row.product.SKU).Msg("SKU existente, se omite")
			continue
		}
		if err != nil {
			skipped++
			log.Warn().Err(err).Int("line", row.line).Str("sku", row.product.SKU).Msg("fila rechazada")
			continue
		}
		created++
		if row.stock == 0 {
			continue
		}
		if _, err := stockUC.Apply(ctx, inventory.ApplyInput{
			ProductID: p.ID,
			Quantity:  row.stock,
			Type:      entity.TransactionTypeIN,
			Notes:     initialLoadNote,
			Username:  auth.DefaultAdminUsername,
		}); err != nil {
			log.Warn().Err(err).Str("sku", p.SKU).Msg("stock inicial no aplicado")
		}
	}
	return created, skipped
}

// readRows parsea el CSV. Con latin1=true decodifica ISO-8859-1 a UTF-8 antes de leer.
func readRows(r io.Reader, latin1 bool) ([]productRow, error) {
	if latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		col[name] = i
	}
	for _, required := range []string{"sku", "name", "selling_price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var rows []productRow
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if get("sku") == "" && get("name") == "" {
			continue
		}

		row := productRow{line: line, product: dto.CreateProductRequest{
			SKU:         get("sku"),
			Name:        get("name"),
			Category:    get("category"),
			Description: get("description"),
		}}
		if row.product.PurchasePrice, err = parseDecimal(get("purchase_price")); err != nil {
			return nil, fmt.Errorf("línea %d purchase_price: %w", line, err)
		}
		if row.product.SellingPrice, err = parseDecimal(get("selling_price")); err != nil {
			return nil, fmt.Errorf("línea %d selling_price: %w", line, err)
		}
		if row.stock, err = parseInt(get("initial_stock")); err != nil {
			return nil, fmt.Errorf("línea %d initial_stock: %w", line, err)
		}
		if v := get("min_stock"); v != "" {
			n, err := parseInt(v)
			if err != nil {
				return nil, fmt.Errorf("línea %d min_stock: %w", line, err)
			}
			row.product.MinStockLevel = &n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
