// Package secrets keeps named credentials in a passphrase-encrypted file.
//
// The file is a TOML table of name = value pairs encrypted with age's
// scrypt recipient. Config values of the form "secret:<name>" refer to it.
package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"filippo.io/age"
	"github.com/BurntSushi/toml"

	"vagas-go/internal/vagas"
)

// Prefix marks config values that name a secret.
const Prefix = "secret:"

// ErrBadPassphrase is returned when the file cannot be decrypted.
var ErrBadPassphrase = errors.New("wrong passphrase for secrets file")

// Store reads and writes the encrypted secrets file.
type Store struct {
	path string
	// workFactor overrides the scrypt cost when non-zero.
	workFactor int
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Exists reports whether the secrets file has been created.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Get returns the secret called name.
func (s *Store) Get(passphrase, name string) (string, error) {
	m, err := s.load(passphrase)
	if err != nil {
		return "", err
	}
	v, ok := m[name]
	if !ok {
		return "", fmt.Errorf("secret %s: %w", name, vagas.ErrNotFound)
	}
	return v, nil
}

// Set stores value under name, creating the file when needed.
func (s *Store) Set(passphrase, name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("secret name is empty")
	}
	m, err := s.load(passphrase)
	if err != nil {
		return err
	}
	m[name] = value
	return s.save(passphrase, m)
}

// Delete removes name. Deleting a missing secret returns vagas.ErrNotFound.
func (s *Store) Delete(passphrase, name string) error {
	m, err := s.load(passphrase)
	if err != nil {
		return err
	}
	if _, ok := m[name]; !ok {
		return fmt.Errorf("secret %s: %w", name, vagas.ErrNotFound)
	}
	delete(m, name)
	return s.save(passphrase, m)
}

// Names returns the stored secret names in order.
func (s *Store) Names(passphrase string) ([]string, error) {
	m, err := s.load(passphrase)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) load(passphrase string) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrBadPassphrase
		}
		return nil, fmt.Errorf("decrypting secrets file: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted secrets: %w", err)
	}

	m := map[string]string{}
	if _, err := toml.Decode(string(plain), &m); err != nil {
		return nil, fmt.Errorf("decoding secrets: %w", err)
	}
	return m, nil
}

func (s *Store) save(passphrase string, m map[string]string) error {
	var plain bytes.Buffer
	if err := toml.NewEncoder(&plain).Encode(m); err != nil {
		return fmt.Errorf("encoding secrets: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".secrets-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	w, err := age.Encrypt(tmp, recipient)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plain.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing secrets: %w", err)
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing secrets file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("moving secrets file into place: %w", err)
	}
	success = true
	return nil
}

// Resolver expands "secret:<name>" references, asking for the passphrase
// at most once.
type Resolver struct {
	store      *Store
	passphrase func() (string, error)

	mu      sync.Mutex
	secrets map[string]string
}

// NewResolver creates a Resolver. passphrase is called lazily on the first
// secret reference.
func NewResolver(store *Store, passphrase func() (string, error)) *Resolver {
	return &Resolver{store: store, passphrase: passphrase}
}

// Resolve returns value unchanged unless it starts with Prefix.
func (r *Resolver) Resolve(value string) (string, error) {
	name, ok := strings.CutPrefix(value, Prefix)
	if !ok {
		return value, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.secrets == nil {
		if !r.store.Exists() {
			return "", fmt.Errorf("secret %s referenced but %s does not exist", name, r.store.Path())
		}
		pass, err := r.passphrase()
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		m, err := r.store.load(pass)
		if err != nil {
			return "", err
		}
		r.secrets = m
	}

	v, ok := r.secrets[name]
	if !ok {
		return "", fmt.Errorf("secret %s: %w", name, vagas.ErrNotFound)
	}
	return v, nil
}
