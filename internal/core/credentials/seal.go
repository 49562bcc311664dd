package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/logger"
)

const nonceSize = 24

var errUnsealable = errors.New("value cannot be opened with the configured secret")

// SealedStore encrypts every value with NaCl secretbox before handing it to
// the wrapped store. A value that does not open is reported as absent.
type SealedStore struct {
	next domain.KeyValueStore
	key  [32]byte
}

// NewSealedStore derives the box key from secret with argon2id, salted with
// the origin so one secret yields different keys per API.
func NewSealedStore(next domain.KeyValueStore, secret, origin string) *SealedStore {
	s := &SealedStore{next: next}
	derived := argon2.IDKey([]byte(secret), []byte("workshop-console:"+origin), 1, 64*1024, 4, 32)
	copy(s.key[:], derived)
	return s
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(sealed)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("Sealed value rejected")
		return "", false, nil
	}
	return plain, true, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.seal(value)
	if err != nil {
		return err
	}
	return s.next.Set(ctx, key, sealed)
}

func (s *SealedStore) Remove(ctx context.Context, key string) error {
	return s.next.Remove(ctx, key)
}

func (s *SealedStore) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *SealedStore) open(sealed string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(data) < nonceSize+secretbox.Overhead {
		return "", errUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errUnsealable
	}
	return string(plain), nil
}
