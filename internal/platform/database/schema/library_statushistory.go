// Copyright (c) 2026 Shelfmark. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LibraryStatusHistoryTable represents the 'library.statushistory' ledger.
// Rows are append-only; no UPDATE or DELETE is ever issued against it.
type LibraryStatusHistoryTable struct {
	Table       string
	ID          string
	UserBookID  string
	OldStatusID string
	NewStatusID string
	ChangedAt   string
}

// LibraryStatusHistory is the schema definition for library.statushistory
var LibraryStatusHistory = LibraryStatusHistoryTable{
	Table:       "library.statushistory",
	ID:          "id",
	UserBookID:  "userbookid",
	OldStatusID: "oldstatusid",
	NewStatusID: "newstatusid",
	ChangedAt:   "changedat",
}

func (t LibraryStatusHistoryTable) Columns() []string {
	return []string{t.ID, t.UserBookID, t.OldStatusID, t.NewStatusID, t.ChangedAt}
}
