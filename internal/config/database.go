package config

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to MySQL using the pool limits from cfg.Database.
// The returned func closes the pool.
func OpenDatabase(ctx context.Context, cfg *Config) (*gorm.DB, func() error, error) {
	level := logger.Error
	if cfg.IsDev() {
		level = logger.Info
	}

	db, err := gorm.Open(mysql.Open(buildDSN(cfg.Database)), &gorm.Config{
		Logger:                 logger.Default.LogMode(level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	applyPool(sqlDB, cfg.Database)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("✅ Database connected [%s/%s, max open %d]",
		net.JoinHostPort(cfg.Database.Host, cfg.Database.Port),
		cfg.Database.DBName,
		cfg.Database.MaxOpenConns,
	)
	return db, sqlDB.Close, nil
}

// poolSetter is the part of *sql.DB the pool limits touch
type poolSetter interface {
	SetMaxIdleConns(n int)
	SetMaxOpenConns(n int)
	SetConnMaxLifetime(d time.Duration)
}

func applyPool(p poolSetter, d DatabaseConfig) {
	p.SetMaxIdleConns(d.MaxIdleConns)
	p.SetMaxOpenConns(d.MaxOpenConns)
	p.SetConnMaxLifetime(d.ConnMaxLifetime)
}

// buildDSN renders the driver DSN; times are parsed as UTC
func buildDSN(d DatabaseConfig) string {
	c := mysqldriver.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.DBName = d.DBName
	c.ParseTime = true
	c.Loc = time.UTC
	c.Timeout = d.ConnectTimeout
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}
