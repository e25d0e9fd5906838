// Command seed-db loads demo data into the database: a couple of users with
// API keys, a small product catalog, coupons, and a default address per user.
// It is idempotent and safe to re-run.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahil13082003/ecommerce-api/internal/storage/postgres"
)

type seedUser struct {
	id       string
	username string
	email    string
	role     string
	apiKey   string
}

type seedVariant struct {
	id    string
	sku   string
	name  string
	price string
	stock int
}

type seedCoupon struct {
	code         string
	discountType string
	value        string
	minAmount    string
	expiresIn    time.Duration
	usageLimit   int
}

var users = []seedUser{
	{id: "user-alice", username: "alice", email: "alice@example.com", role: "USER", apiKey: "alice-dev-key"},
	{id: "user-bob", username: "bob", email: "bob@example.com", role: "USER", apiKey: "bob-dev-key"},
	{id: "user-admin", username: "admin", email: "admin@example.com", role: "ADMIN", apiKey: "admin-dev-key"},
	{id: "user-root", username: "root", email: "root@example.com", role: "SUPER_ADMIN", apiKey: "root-dev-key"},
}

var variants = []seedVariant{
	{id: "variant-tee-black-m", sku: "TEE-BLK-M", name: "Classic Tee (Black, M)", price: "19.99", stock: 120},
	{id: "variant-tee-black-l", sku: "TEE-BLK-L", name: "Classic Tee (Black, L)", price: "19.99", stock: 80},
	{id: "variant-hoodie-grey-m", sku: "HOO-GRY-M", name: "Zip Hoodie (Grey, M)", price: "49.50", stock: 35},
	{id: "variant-cap-navy", sku: "CAP-NVY", name: "Snapback Cap (Navy)", price: "14.00", stock: 200},
	{id: "variant-mug-white", sku: "MUG-WHT", name: "Ceramic Mug (White)", price: "9.75", stock: 60},
	{id: "variant-poster-a2", sku: "PST-A2", name: "Art Print Poster (A2)", price: "24.00", stock: 1},
}

var coupons = []seedCoupon{
	{code: "SAVE10", discountType: "PERCENT", value: "10", minAmount: "20", expiresIn: 90 * 24 * time.Hour, usageLimit: 100},
	{code: "WELCOME5", discountType: "FIXED", value: "5", minAmount: "0", expiresIn: 365 * 24 * time.Hour, usageLimit: 1},
	{code: "HALFOFF", discountType: "PERCENT", value: "50", minAmount: "100", expiresIn: 7 * 24 * time.Hour, usageLimit: 10},
	{code: "EXPIRED1", discountType: "PERCENT", value: "25", minAmount: "0", expiresIn: -24 * time.Hour, usageLimit: 1},
}

func main() {
	var (
		databaseURL  string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or ECOM_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("ECOM_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedUsers(ctx, pool, pepper); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedVariants(ctx, pool); err != nil {
		return errors.Wrap(err, "seed product variants")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedAddresses(ctx, pool); err != nil {
		return errors.Wrap(err, "seed addresses")
	}

	return nil
}

const upsertUserSQL = `
INSERT INTO users (id, username, email, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, email = EXCLUDED.email, role = EXCLUDED.role
`

const upsertAPIKeySQL = `
INSERT INTO api_keys (id, key_hash, user_id, name, active)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (id) DO UPDATE SET key_hash = EXCLUDED.key_hash, user_id = EXCLUDED.user_id, active = TRUE
`

func seedUsers(ctx context.Context, pool *pgxpool.Pool, pepper string) error {
	slog.Info("seeding users", slog.Int("count", len(users)))

	for _, u := range users {
		if _, err := pool.Exec(ctx, upsertUserSQL, u.id, u.username, u.email, u.role); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.username)
		}

		keyHash := hashAPIKey(u.apiKey, pepper)
		if _, err := pool.Exec(ctx, upsertAPIKeySQL, "key-"+u.username, keyHash, u.id, u.username+" dev key"); err != nil {
			return errors.Wrapf(err, "upsert api key for %s", u.username)
		}

		slog.Info("seeded user",
			slog.String("username", u.username),
			slog.String("role", u.role),
			slog.String("api_key", u.apiKey),
		)
	}

	return nil
}

func hashAPIKey(key, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

const upsertVariantSQL = `
INSERT INTO product_variants (id, sku, name, price, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name, price = EXCLUDED.price, stock = EXCLUDED.stock
`

func seedVariants(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding product variants", slog.Int("count", len(variants)))

	for _, v := range variants {
		price, err := decimal.NewFromString(v.price)
		if err != nil {
			return errors.Wrapf(err, "parse price for %s", v.sku)
		}
		if _, err := pool.Exec(ctx, upsertVariantSQL, v.id, v.sku, v.name, price, v.stock); err != nil {
			return errors.Wrapf(err, "upsert variant %s", v.sku)
		}

		slog.Info("seeded variant", slog.String("sku", v.sku), slog.String("price", v.price), slog.Int("stock", v.stock))
	}

	return nil
}

const upsertCouponSQL = `
INSERT INTO coupons (code, discount_type, value, min_amount, expires_at, usage_limit)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE SET
	discount_type = EXCLUDED.discount_type,
	value = EXCLUDED.value,
	min_amount = EXCLUDED.min_amount,
	expires_at = EXCLUDED.expires_at,
	usage_limit = EXCLUDED.usage_limit
`

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding coupons", slog.Int("count", len(coupons)))

	now := time.Now()
	for _, c := range coupons {
		value, err := decimal.NewFromString(c.value)
		if err != nil {
			return errors.Wrapf(err, "parse value for coupon %s", c.code)
		}
		minAmount, err := decimal.NewFromString(c.minAmount)
		if err != nil {
			return errors.Wrapf(err, "parse min amount for coupon %s", c.code)
		}

		expiresAt := now.Add(c.expiresIn)
		if _, err := pool.Exec(ctx, upsertCouponSQL, c.code, c.discountType, value, minAmount, expiresAt, c.usageLimit); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}

		slog.Info("seeded coupon", slog.String("code", c.code), slog.String("type", c.discountType), slog.String("value", c.value))
	}

	return nil
}

const upsertAddressSQL = `
INSERT INTO addresses (id, user_id, name, street, city, state, country, zipcode, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
ON CONFLICT (id) DO NOTHING
`

func seedAddresses(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding addresses")

	for _, u := range users {
		id := "addr-" + u.username
		_, err := pool.Exec(ctx, upsertAddressSQL,
			id, u.id, u.username+" home", "1 Main St", "Springfield", "IL", "US", "62701")
		if err != nil {
			return errors.Wrapf(err, "upsert address for %s", u.username)
		}
	}

	return nil
}
