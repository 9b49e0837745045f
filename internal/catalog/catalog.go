// Package catalog maps design file names to canned quote line items. It stands
// in for real document extraction behind the Extractor interface.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fieldquote/backend/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Extractor produces line items for a selected file.
type Extractor interface {
	Extract(ctx context.Context, fileName string) ([]models.QuoteItem, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, fileName string) ([]models.QuoteItem, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, fileName string) ([]models.QuoteItem, error) {
	return f(ctx, fileName)
}

// Item is a line item as written in the catalog document.
type Item struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Quantity int             `yaml:"quantity"`
	Type     models.ItemType `yaml:"type,omitempty"`
	UnitCost decimal.Decimal `yaml:"unit_cost"`
	Category models.Category `yaml:"category,omitempty"`
}

// Rule returns Items when any of Keys is a substring of the file name.
type Rule struct {
	Keys  []string `yaml:"keys"`
	Items []Item   `yaml:"items"`
}

// Document is the YAML layout of a catalog.
type Document struct {
	Rules    []Rule `yaml:"rules"`
	Fallback []Item `yaml:"fallback"`
}

// Catalog is an Extractor backed by ordered substring rules.
type Catalog struct {
	doc Document
}

// Load reads and validates a catalog document.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	for i := range doc.Rules {
		for j, k := range doc.Rules[i].Keys {
			doc.Rules[i].Keys[j] = strings.ToLower(k)
		}
	}
	return &Catalog{doc: doc}, nil
}

// LoadFile loads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

func (d Document) validate() error {
	for i, r := range d.Rules {
		if len(r.Keys) == 0 {
			return fmt.Errorf("rule %d has no keys: %w", i, models.ErrNotValid)
		}
		for _, k := range r.Keys {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("rule %d has an empty key: %w", i, models.ErrNotValid)
			}
		}
		if len(r.Items) == 0 {
			return fmt.Errorf("rule %d has no items: %w", i, models.ErrNotValid)
		}
		if err := validateItems(r.Items); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	if len(d.Fallback) == 0 {
		return fmt.Errorf("fallback list is empty: %w", models.ErrNotValid)
	}
	if err := validateItems(d.Fallback); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	return nil
}

func validateItems(items []Item) error {
	for _, it := range items {
		switch {
		case it.ID == "":
			return fmt.Errorf("item %q has no id: %w", it.Name, models.ErrNotValid)
		case it.Quantity < 0:
			return fmt.Errorf("item %s has negative quantity: %w", it.ID, models.ErrNotValid)
		case it.UnitCost.IsNegative():
			return fmt.Errorf("item %s has negative unit cost: %w", it.ID, models.ErrNotValid)
		case !it.Category.Valid():
			return fmt.Errorf("item %s has unknown category %q: %w", it.ID, it.Category, models.ErrNotValid)
		}
	}
	return nil
}

// Extract returns the items of the first matching rule, or the fallback list.
// The result is never empty and is owned by the caller.
func (c *Catalog) Extract(ctx context.Context, fileName string) ([]models.QuoteItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Match(fileName), nil
}

// Match is Extract without a context.
func (c *Catalog) Match(fileName string) []models.QuoteItem {
	name := strings.ToLower(fileName)
	for _, r := range c.doc.Rules {
		for _, k := range r.Keys {
			if strings.Contains(name, k) {
				return toQuoteItems(r.Items)
			}
		}
	}
	return toQuoteItems(c.doc.Fallback)
}

// Rules returns a copy of the rule table.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.doc.Rules))
	for i, r := range c.doc.Rules {
		out[i] = Rule{
			Keys:  append([]string(nil), r.Keys...),
			Items: append([]Item(nil), r.Items...),
		}
	}
	return out
}

// QuoteItems returns the rule's items with totals filled in.
func (r Rule) QuoteItems() []models.QuoteItem {
	return toQuoteItems(r.Items)
}

// Fallback returns the items used when no rule matches.
func (c *Catalog) Fallback() []models.QuoteItem {
	return toQuoteItems(c.doc.Fallback)
}

// Encode writes the catalog back out as YAML.
func (c *Catalog) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.doc); err != nil {
		return err
	}
	return enc.Close()
}

func toQuoteItems(items []Item) []models.QuoteItem {
	out := make([]models.QuoteItem, len(items))
	for i, it := range items {
		typ := it.Type
		if typ == "" {
			typ = models.ItemTypeA32
		}
		out[i] = models.NewQuoteItem(it.ID, it.Name, it.Quantity, typ, it.UnitCost, it.Category)
		out[i].ExtractedFromPDF = true
	}
	return out
}
