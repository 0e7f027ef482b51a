package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/env"
	"github.com/fritzpay/banktransferd/pkg/server"
	"github.com/fritzpay/banktransferd/pkg/service"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// AppName is the name of the application
	AppName = "banktransferd"
	// AppVersion is the version of the application
	AppVersion = "0.1"
)

const cfgEnvVar = "BANKTRANSFERDCFG"

// command line flags
var (
	// cfgFileName is the configuration file to use
	cfgFileName string
)

var (
	log log15.Logger
)

func main() {
	// set flags
	flag.StringVar(&cfgFileName, "c", "", "config file name to use")
	flag.Parse()

	log = env.Log.New(log15.Ctx{
		"app":     AppName,
		"version": AppVersion,
	})
	setEnv()

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Warn("error loading .env file", log15.Ctx{"err": err})
	}
	if cfgFileName == "" {
		cfgFileName = os.Getenv(cfgEnvVar)
	}

	cfg, err := readConfig()
	if err != nil {
		os.Exit(1)
	}
	if err = cfg.Validate(); err != nil {
		log.Crit("invalid config", log15.Ctx{"err": err})
		os.Exit(1)
	}
	if err = env.SetLevel(cfg.Log.Level); err != nil {
		log.Crit("invalid log level", log15.Ctx{"err": err})
		os.Exit(1)
	}

	ctx, err := service.NewContext(context.Background(), cfg, log)
	if err != nil {
		log.Crit("error creating service context", log15.Ctx{"err": err})
		os.Exit(1)
	}
	closeAll, err := setupContext(ctx)
	if err != nil {
		closeAll()
		os.Exit(1)
	}

	srv := server.NewServer(ctx)
	err = registerServices(ctx, srv)
	if err == nil {
		log.Info("starting server...")
		err = srv.Serve()
	}
	closeAll()
	if err != nil {
		log.Crit("server exited with error", log15.Ctx{"err": err})
		os.Exit(1)
	}
}

func readConfig() (config.Config, error) {
	if cfgFileName == "" {
		log.Warn("no config file provided. will use default config...")
		return config.DefaultConfig(), nil
	}
	f, err := os.Open(cfgFileName)
	if err != nil {
		log.Crit("error opening config file", log15.Ctx{"err": err, "fileName": cfgFileName})
		return config.Config{}, err
	}
	defer f.Close()
	cfg, err := config.ReadConfig(f)
	if err != nil {
		log.Crit("error reading config file", log15.Ctx{"err": err, "fileName": cfgFileName})
		return config.Config{}, err
	}
	return cfg, nil
}

func openDB(dsn string, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
