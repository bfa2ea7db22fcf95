package database

import "strings"

// Schema is the catalog snapshot handed to the query generator.
type Schema struct {
	Tables []Table
}

// add appends col to table. A column repeated by the catalog join (several
// or composite foreign keys) is kept once, with its first foreign key.
func (s *Schema) add(table string, col Column) {
	if n := len(s.Tables); n > 0 && s.Tables[n-1].Name == table {
		t := &s.Tables[n-1]
		for _, c := range t.Columns {
			if c.Name == col.Name {
				return
			}
		}
		t.Columns = append(t.Columns, col)
		return
	}
	s.Tables = append(s.Tables, Table{Name: table, Columns: []Column{col}})
}

// TableNames returns table names in catalog order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Describe renders a column as "name type [NOT NULL] [(FK -> table.column)]".
func (c Column) Describe() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString(" ")
	b.WriteString(c.DataType)
	if !c.IsNullable {
		b.WriteString(" NOT NULL")
	}
	if c.ForeignKey != nil {
		b.WriteString(" (FK -> ")
		b.WriteString(c.ForeignKey.Table)
		b.WriteString(".")
		b.WriteString(c.ForeignKey.Column)
		b.WriteString(")")
	}
	return b.String()
}

// Render formats the schema as the text block used in prompts.
func (s *Schema) Render() string {
	var b strings.Builder
	b.WriteString("Database Schema:\n")
	for _, t := range s.Tables {
		b.WriteString("\nTable: ")
		b.WriteString(t.Name)
		b.WriteString("\nColumns:\n")
		for _, c := range t.Columns {
			b.WriteString("  - ")
			b.WriteString(c.Describe())
			b.WriteString("\n")
		}
	}
	return b.String()
}
