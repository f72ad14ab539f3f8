package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

// ValkeyClient caches capability outputs so that reruns over the same batch
// see pinned model responses instead of fresh, possibly different ones.
type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const capabilityCacheTTLSeconds = 7 * 24 * 60 * 60

func InitValkey() (*ValkeyClient, error) {
	var initErr error
	valkeyOnce.Do(func() {
		client, err := newValkeyConn()
		if err != nil {
			initErr = err
			return
		}
		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	if initErr != nil {
		return nil, initErr
	}
	return valkeyInstance, nil
}

func newValkeyConn() (valkey.Client, error) {
	valkeyAddr := os.Getenv("VALKEY_INIT_ADDRESS")
	valkeyPassword := os.Getenv("VALKEY_PASSWORD")
	useTLS := os.Getenv("VALKEY_TLS") == "true"

	opts := valkey.ClientOption{
		InitAddress: []string{
			valkeyAddr,
		},
		Password:         valkeyPassword,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if c := client.Do(ctx, client.B().Ping().Build()); c.Error() != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error())
	}

	return client, nil
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.Client.Close()

	client, err := newValkeyConn()
	if err != nil {
		panic(err)
	}

	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// GetCached returns the cached payload for key, or false on a miss.
func (vc *ValkeyClient) GetCached(ctx context.Context, key string) ([]byte, bool) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(key).Build(), 3)
	if err := res.Error(); err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return nil, false
	}

	payload, err := res.AsBytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// SetCached stores a capability payload under key with the cache TTL.
func (vc *ValkeyClient) SetCached(ctx context.Context, key string, payload []byte) error {
	completed := []valkey.Completed{
		vc.Client.B().Set().Key(key).Value(string(payload)).Build(),
		vc.Client.B().Expire().Key(key).Seconds(capabilityCacheTTLSeconds).Build(),
	}

	responses := vc.DoMultiWithRetry(ctx, completed, 3)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		// A nil reply on GET is a miss, not a transport failure.
		if valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
