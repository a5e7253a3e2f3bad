// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, boundary, request and response types.

# Domain Types

  - Participant: roster member with selected date and grocery list
  - DateOption: one of the fixed trip dates
  - Tally: leading date(s) and vote count
  - Notice: a rolled-back mutation shown to the user

# Remote Boundary

The remote participant table uses underscore keys (selected_date,
grocery_list) while the in-memory and view types use camel-style keys.
Translation happens here and nowhere else:

	p := models.FromRecord(rec)
	rec := p.Record()

Updates carry exactly one column:

	models.DatePatch("July 7, 2025")  // {"selected_date":"July 7, 2025"}
	models.DatePatch("")              // {"selected_date":null}
	models.GroceryPatch(items)        // {"grocery_list":[...]}

# View Types

  - BoardView: everything the page needs in one response
  - RosterEntry: participant selector entry
  - Dashboard: the active participant's editable state
  - DateChoice: date option with selected flag
  - ErrorResponse: error, message
*/
package models
