package mail

import "strings"

// Directory resolves people's names to email addresses.
type Directory struct {
	entries  map[string]string
	fallback string
}

// NewDirectory builds a case-insensitive directory. Unknown names resolve to fallbackName's address.
func NewDirectory(entries map[string]string, fallbackName string) *Directory {
	normalized := make(map[string]string, len(entries))
	for name, address := range entries {
		normalized[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(address)
	}
	return &Directory{
		entries:  normalized,
		fallback: normalized[strings.ToLower(strings.TrimSpace(fallbackName))],
	}
}

// Lookup returns the address for name, or the fallback address.
func (d *Directory) Lookup(name string) string {
	if address, ok := d.entries[strings.ToLower(strings.TrimSpace(name))]; ok {
		return address
	}
	return d.fallback
}
