package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed data/phones.json data/abbreviations.yaml
var dataFS embed.FS

// Decode reads a JSON array of products.
func Decode(r io.Reader) ([]Product, error) {
	var products []Product
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return products, nil
}

// LoadEmbedded builds a Store from the dataset compiled into the binary.
func LoadEmbedded() (*Store, error) {
	f, err := dataFS.Open("data/phones.json")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	defer f.Close()

	products, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return NewStore(products)
}

// LoadFile builds a Store from a JSON file on disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	products, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return NewStore(products)
}
