// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryStatusTable represents the 'library.status' vocabulary table
type LibraryStatusTable struct {
	Table       string
	ID          string
	Slug        string
	DisplayName string
}

// LibraryStatus is the schema definition for library.status
var LibraryStatus = LibraryStatusTable{
	Table:       "library.status",
	ID:          "id",
	Slug:        "slug",
	DisplayName: "displayname",
}

func (t LibraryStatusTable) Columns() []string {
	return []string{t.ID, t.Slug, t.DisplayName}
}
