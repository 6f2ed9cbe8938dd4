// Package seal encrypts opaque payloads with AES-GCM and supports key rotation.
//
// Paged forms carry the values of every page the user is not looking at in
// hidden fields. Sealing them into a single authenticated field prevents a
// client from editing answers it already submitted, and the same Sealer
// encrypts submissions at rest.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/pagedform/pkg/render"
)

// KeySize is the required key length (AES-256).
const KeySize = 32

// ErrInvalidKey is returned when a key is not KeySize bytes long.
var ErrInvalidKey = errors.New("seal: key must be 32 bytes")

// ErrTampered is returned when a payload cannot be opened with any known key.
var ErrTampered = errors.New("seal: decryption failed with all available keys")

// Config holds the keys for sealing and opening.
type Config struct {
	// ActiveKey seals new payloads.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot open a payload.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// Sealer seals and opens payloads. It is safe for concurrent use.
type Sealer struct {
	active   cipher.AEAD
	fallback []cipher.AEAD
}

// New creates a Sealer from cfg.
func New(cfg Config) (*Sealer, error) {
	active, err := newAEAD(cfg.ActiveKey)
	if err != nil {
		return nil, err
	}
	s := &Sealer{active: active}
	for i, key := range cfg.FallbackKeys {
		aead, err := newAEAD(key)
		if err != nil {
			return nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		s.fallback = append(s.fallback, aead)
	}
	return s, nil
}

// ParseKey decodes a base64 key (standard or URL alphabet).
func ParseKey(encoded string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if key, err := enc.DecodeString(encoded); err == nil {
			if len(key) != KeySize {
				return nil, ErrInvalidKey
			}
			return key, nil
		}
	}
	return nil, fmt.Errorf("seal: key is not valid base64")
}

// Seal encrypts plaintext with the active key. The nonce is prepended.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.active.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.active.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts ciphertext, trying the active key and then each fallback.
func (s *Sealer) Open(ciphertext []byte) ([]byte, error) {
	if plain, err := open(s.active, ciphertext); err == nil {
		return plain, nil
	}
	for _, aead := range s.fallback {
		if plain, err := open(aead, ciphertext); err == nil {
			return plain, nil
		}
	}
	return nil, ErrTampered
}

// SealString seals plaintext and returns it base64 encoded for transport.
func (s *Sealer) SealString(plaintext []byte) (string, error) {
	sealed, err := s.Seal(plaintext)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func (s *Sealer) OpenString(encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTampered, err)
	}
	return s.Open(raw)
}

// SealHidden packs fields into a single hidden field named name. Fields listed
// in keep stay in clear text, ahead of the sealed one.
func (s *Sealer) SealHidden(name string, fields []render.HiddenField, keep ...string) ([]render.HiddenField, error) {
	clear := make(map[string]bool, len(keep))
	for _, k := range keep {
		clear[k] = true
	}

	var out []render.HiddenField
	packed := make(map[string]string, len(fields))
	for _, f := range fields {
		if clear[f.Name] {
			out = append(out, f)
			continue
		}
		packed[f.Name] = f.Value
	}

	payload, err := json.Marshal(packed)
	if err != nil {
		return nil, fmt.Errorf("seal: marshal hidden fields: %w", err)
	}
	sealed, err := s.SealString(payload)
	if err != nil {
		return nil, err
	}
	return append(out, render.HiddenField{Name: name, Value: sealed}), nil
}

// OpenHidden unpacks a value produced by SealHidden. An empty value opens to
// no fields.
func (s *Sealer) OpenHidden(value string) ([]render.HiddenField, error) {
	if value == "" {
		return nil, nil
	}
	plain, err := s.OpenString(value)
	if err != nil {
		return nil, err
	}
	var packed map[string]string
	if err := json.Unmarshal(plain, &packed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTampered, err)
	}
	names := make([]string, 0, len(packed))
	for name := range packed {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]render.HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, render.HiddenField{Name: name, Value: packed[name]})
	}
	return out, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func open(aead cipher.AEAD, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce := ciphertext[:aead.NonceSize()]
	return aead.Open(nil, nonce, ciphertext[aead.NonceSize():], nil)
}
