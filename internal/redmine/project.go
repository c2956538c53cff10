/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package redmine

import "strings"

// SelectionItem is the one-line projection of a project for selection lists.
// Presentation layers consume this instead of the raw Project.
type SelectionItem struct {
	Label       string
	Description string
	Detail      string
	Identifier  string
}

// SelectionItem renders the project as a selection-list entry: label is the
// name, the description is collapsed to a single line and detail carries the
// identifier.
func (p Project) SelectionItem() SelectionItem {
	desc := strings.ReplaceAll(p.Description, "\r", "")
	desc = strings.ReplaceAll(desc, "\n", " ")
	return SelectionItem{
		Label:       p.Name,
		Description: desc,
		Detail:      p.Identifier,
		Identifier:  p.Identifier,
	}
}
