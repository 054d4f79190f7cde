package domain

import "time"

// Feature holds the result of parsing a single feature source.
type Feature struct {
	FilePath   string
	FileType   string // "gherkin", "markdown"
	Name       string
	Tags       []string
	Background []Step
	Scenarios  []Scenario
	Headings   []Heading // Markdown sources only
}

// Scenario is one runnable test case.
type Scenario struct {
	Name       string
	Tags       []string
	Steps      []Step
	LineNumber int
	Context    string // Nearest heading when parsed from Markdown
}

// Step is a single line of scenario text.
type Step struct {
	Keyword    string // "Given", "When", "Then", "And", "But", "*"
	Text       string
	Table      *DataTable
	DocString  string
	LineNumber int
}

// Heading represents a document heading for context inference.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// DataTable is the table attached to a step.
type DataTable struct {
	Rows [][]string
}

// RowsHash turns a two-column table into a map of first cell to second cell.
func (t *DataTable) RowsHash() map[string]string {
	out := make(map[string]string)
	if t == nil {
		return out
	}
	for _, row := range t.Rows {
		if len(row) < 2 {
			continue
		}
		out[row[0]] = row[1]
	}
	return out
}

// Hashes treats the first row as a header and returns one map per data row.
func (t *DataTable) Hashes() []map[string]string {
	if t == nil || len(t.Rows) < 2 {
		return nil
	}
	header := t.Rows[0]
	out := make([]map[string]string, 0, len(t.Rows)-1)
	for _, row := range t.Rows[1:] {
		m := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// UserRecord is a login fixture record. A nil Password selects the
// passwordless login path.
type UserRecord struct {
	ID                   string  `json:"id" yaml:"id"`
	Password             *string `json:"password" yaml:"password"`
	ExpectedErrorMessage string  `json:"expectedErrorMessage,omitempty" yaml:"expectedErrorMessage,omitempty"`
}

// ProductRecord is an orderable product.
type ProductRecord struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// OrderTypeRecord describes an order type (standard, express, ...).
type OrderTypeRecord struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// AddressRecord is a shipping address.
type AddressRecord struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Street     string `json:"street" yaml:"street"`
	City       string `json:"city" yaml:"city"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
}

// OrderDetails is the composite record stored after an order is placed.
type OrderDetails struct {
	OrderNumber     string          `json:"orderNumber"`
	Product         ProductRecord   `json:"product"`
	Quantity        int             `json:"quantity"`
	OrderType       OrderTypeRecord `json:"orderType"`
	ShippingAddress AddressRecord   `json:"shippingAddress"`
	Timestamp       string          `json:"timestamp"`
	TotalAmount     float64         `json:"totalAmount"`
}

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	StatusPassed    StepStatus = "passed"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
	StatusUndefined StepStatus = "undefined"
)

// StepResult records how one step went.
type StepResult struct {
	Step     Step
	Status   StepStatus
	Err      error
	Duration time.Duration
}

// ScenarioResult records how one scenario went.
type ScenarioResult struct {
	Feature  string
	File     string
	Scenario string
	Status   StepStatus
	Steps    []StepResult
	Err      error
	Duration time.Duration
}

// SuiteSpec describes one scaffolded Ginkgo test file.
type SuiteSpec struct {
	SourceFile string
	SourceType string
	Describe   string
	Labels     []string
	Groups     []TestGroup
}

// TestGroup is a Context block; an empty Context renders its tests directly
// under the Describe.
type TestGroup struct {
	Context string
	Tests   []TestCase
}

// TestCase is one It block running a single scenario by name.
type TestCase struct {
	Scenario string
	Labels   []string
	Steps    []string
	Line     int
}
