// Command sessionctl drives a tokensession Manager from the shell.
//
//	sessionctl login -user alice -pass secret
//	sessionctl guest <token>
//	sessionctl status
//	sessionctl config <key>
//	sessionctl logout
//
// Settings come from TOKENSESSION_* environment variables (see package
// config); an optional .env file in the working directory is read first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/bluescreen10/tokensession"
	"github.com/bluescreen10/tokensession/config"
	"github.com/bluescreen10/tokensession/gormstore"
	"github.com/bluescreen10/tokensession/memstore"
	"github.com/bluescreen10/tokensession/mysqlstore"
	"github.com/bluescreen10/tokensession/redisstore"
	"github.com/bluescreen10/tokensession/remote"
)

var errLoginRejected = errors.New("login rejected")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sessionctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: sessionctl <login|guest|logout|status|config> [args]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	opts := []remote.Option{
		remote.WithTimeout(cfg.RequestTimeout),
		remote.WithCacheStore(store),
	}
	if cfg.LogRequests {
		opts = append(opts, remote.WithTransportLog(remote.TransportLogConfig{
			Format: remote.DefaultTransportLogConfig.Format,
			Output: log.WriterLevel(logrus.DebugLevel),
		}))
	}

	mgr := tokensession.NewManager(store, remote.New(cfg.APIURL, opts...),
		tokensession.WithLogger(tokensession.NewLogrusLogger(log)),
	)
	mgr.Init()

	return dispatch(ctx, mgr, args, out)
}

func dispatch(ctx context.Context, mgr *tokensession.Manager, args []string, out io.Writer) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		user := fs.String("user", "", "user name")
		pass := fs.String("pass", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}

		ok, err := mgr.Login(ctx, map[string]string{"user": *user, "pass": *pass})
		if err != nil {
			return err
		}
		if !ok {
			return errLoginRejected
		}
		fmt.Fprintln(out, "logged in")
		return nil

	case "guest":
		if len(rest) != 1 {
			return errors.New("usage: sessionctl guest <token>")
		}
		data, err := mgr.Guest(ctx, rest[0])
		if err != nil {
			return err
		}
		return json.NewEncoder(out).Encode(data)

	case "logout":
		return mgr.Logout()

	case "status":
		claims, _ := mgr.Decode()
		_, present := mgr.Token()
		return json.NewEncoder(out).Encode(map[string]any{
			"present": present,
			"admin":   mgr.IsAdmin(),
			"valid":   mgr.IsValid(),
			"claims":  claims,
		})

	case "config":
		if len(rest) != 1 {
			return errors.New("usage: sessionctl config <key>")
		}
		v, found, err := mgr.Config().Value(rest[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("config key %q not set", rest[0])
		}
		return json.NewEncoder(out).Encode(v)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func openStore(ctx context.Context, cfg config.Config) (tokensession.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StoreSQLite:
		return gormstore.Open(cfg.SQLitePath)
	case config.StoreRedis:
		rdb, err := redisstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisstore.New(rdb, redisstore.WithPrefix(cfg.RedisKeyPrefix)), nil
	case config.StoreMySQL:
		return mysqlstore.Open(cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, cfg.Store)
	}
}
