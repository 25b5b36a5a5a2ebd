package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/finsight/internal/database/repository"
)

type defaultCategory struct {
	name   string
	parent string
}

// Parents come before their children.
var defaultCategories = []defaultCategory{
	{name: "Income"},
	{name: "Food"},
	{name: "Groceries", parent: "Food"},
	{name: "Restaurants", parent: "Food"},
	{name: "Transport"},
	{name: "Shopping"},
	{name: "Bills"},
	{name: "Subscriptions", parent: "Bills"},
	{name: "Health"},
	{name: "Entertainment"},
	{name: "Transfers"},
}

// CategoryID is the stable id of a seeded category.
func CategoryID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("finsight/category/"+strings.ToLower(name))).String()
}

// SeedDefaults inserts the default categories that are missing. Rows that
// already exist keep whatever name or order they were given since.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		cats := repository.NewCategoryRepo(tx)
		for i, d := range defaultCategories {
			id := CategoryID(d.name)
			existing, err := cats.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", d.name, err)
			}
			if existing != nil {
				continue
			}
			c := repository.Category{ID: id, Name: d.name, SortOrder: i}
			if d.parent != "" {
				parentID := CategoryID(d.parent)
				c.ParentID = &parentID
			}
			if err := cats.Insert(ctx, c); err != nil {
				return fmt.Errorf("seed category %s: %w", d.name, err)
			}
		}
		return nil
	})
}
