// Package contacts is the local address book: every recipient an
// invitation was sent to is remembered so the wizard can offer them
// again. Client-side convenience only; the server keeps its own
// recipient records.
package contacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Contact is one previously used recipient.
type Contact struct {
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	LastUsed time.Time `json:"last_used"`
}

// Book is a mutex-guarded JSON-file store.
type Book struct {
	mu       sync.RWMutex
	contacts []Contact
	file     string
}

// Open loads the address book at filePath, starting empty when the
// file does not exist yet.
func Open(filePath string) (*Book, error) {
	b := &Book{
		contacts: make([]Contact, 0),
		file:     filePath,
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := b.load(); err != nil {
			return nil, fmt.Errorf("failed to load contacts: %w", err)
		}
	}

	return b, nil
}

// Add upserts a contact. Entries are keyed by normalized phone so
// differently formatted spellings of one number collapse; the name and
// raw phone of the latest use win.
func (b *Book) Add(name, phone string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := normalize(phone)
	for i, c := range b.contacts {
		if normalize(c.Phone) == key {
			b.contacts[i].Name = name
			b.contacts[i].Phone = phone
			b.contacts[i].LastUsed = time.Now()
			return b.save()
		}
	}

	b.contacts = append(b.contacts, Contact{
		Name:     name,
		Phone:    phone,
		LastUsed: time.Now(),
	})
	return b.save()
}

// Remove deletes the contact with the given phone.
func (b *Book) Remove(phone string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := normalize(phone)
	for i, c := range b.contacts {
		if normalize(c.Phone) == key {
			b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
			return b.save()
		}
	}
	return fmt.Errorf("contact not found")
}

// All returns a copy sorted by name.
func (b *Book) All() []Contact {
	b.mu.RLock()
	defer b.mu.RUnlock()

	contacts := make([]Contact, len(b.contacts))
	copy(contacts, b.contacts)
	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})
	return contacts
}

// save writes the book to file. Callers hold the lock.
func (b *Book) save() error {
	data, err := json.MarshalIndent(b.contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}

	dir := filepath.Dir(b.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(b.file, data, 0644)
}

// load reads the book from file. Callers hold the lock or own the
// only reference.
func (b *Book) load() error {
	data, err := os.ReadFile(b.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		b.contacts = make([]Contact, 0)
		return nil
	}

	if err := json.Unmarshal(data, &b.contacts); err != nil {
		return fmt.Errorf("failed to unmarshal contacts: %w", err)
	}

	return nil
}

// normalize strips everything but digits.
func normalize(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
