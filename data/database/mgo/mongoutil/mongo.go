package mongoutil

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMaxPoolSize = 100
	defaultMaxRetry    = 3
)

// Config represents the MongoDB configuration.
type Config struct {
	Uri         string
	Database    string
	Username    string
	Password    string
	AuthSource  string
	MaxPoolSize int
	MaxRetry    int
}

func (c *Config) validate() error {
	if c.Uri == "" {
		return errors.New("mongo uri is required")
	}
	if c.Database == "" {
		return errors.New("mongo database is required")
	}
	if c.MaxPoolSize <= 0 {
		c.MaxPoolSize = defaultMaxPoolSize
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = defaultMaxRetry
	}
	if c.AuthSource == "" {
		c.AuthSource = "admin"
	}
	return nil
}

func (c *Config) clientOptions() *options.ClientOptions {
	opts := options.Client().ApplyURI(c.Uri)
	opts.SetMaxPoolSize(uint64(c.MaxPoolSize))
	if c.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   c.Username,
			Password:   c.Password,
			AuthSource: c.AuthSource,
		})
	}
	return opts
}

// NewDatabase connects with bounded retries and returns the handle the
// stores hang their collections off.
func NewDatabase(ctx context.Context, cfg *Config) (*mongo.Database, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	opts := cfg.clientOptions()

	var (
		cli *mongo.Client
		err error
	)
	for i := 0; i < cfg.MaxRetry; i++ {
		cli, err = connect(ctx, opts)
		if err != nil && shouldRetry(ctx, err) {
			time.Sleep(time.Second / 2)
			continue
		}
		break
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to MongoDB uri=%s", cfg.Uri)
	}
	return cli.Database(cfg.Database), nil
}

func connect(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return cli, nil
}

// shouldRetry determines whether an error should trigger a retry.
// Auth failures (13, 18) never will.
func shouldRetry(ctx context.Context, err error) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		if cmdErr, ok := err.(mongo.CommandError); ok {
			return cmdErr.Code != 13 && cmdErr.Code != 18
		}
		return true
	}
}
