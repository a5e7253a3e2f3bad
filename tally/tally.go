// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally computes the leading trip date from participant votes.
package tally

import (
	"github.com/danielhkuo/tripboard/models"
)

// Compute counts every non-empty SelectedDate and reports the date(s)
// with the highest count. Ties are all reported, in first-vote order.
func Compute(participants []models.Participant) models.Tally {
	counts := make(map[string]int)
	var order []string
	for _, p := range participants {
		if p.SelectedDate == "" {
			continue
		}
		if counts[p.SelectedDate] == 0 {
			order = append(order, p.SelectedDate)
		}
		counts[p.SelectedDate]++
	}
	return leaders(counts, order)
}

// ForOptions is Compute with leading dates reported in option order.
// Votes for dates outside options are still counted.
func ForOptions(options []models.DateOption, participants []models.Participant) models.Tally {
	result := Compute(participants)
	if !result.HasVotes {
		return result
	}

	order := make([]string, 0, len(result.Counts))
	known := make(map[string]bool, len(options))
	for _, opt := range options {
		known[opt.Value] = true
		if result.Counts[opt.Value] > 0 {
			order = append(order, opt.Value)
		}
	}
	for _, date := range result.LeadingDates {
		if !known[date] {
			order = append(order, date)
		}
	}
	return leaders(result.Counts, order)
}

func leaders(counts map[string]int, order []string) models.Tally {
	result := models.Tally{
		LeadingDates: []string{},
		Counts:       counts,
	}

	// Find the maximum count
	for _, date := range order {
		if counts[date] > result.VoteCount {
			result.VoteCount = counts[date]
		}
	}
	if result.VoteCount == 0 {
		return result
	}

	result.HasVotes = true
	for _, date := range order {
		if counts[date] == result.VoteCount {
			result.LeadingDates = append(result.LeadingDates, date)
		}
	}
	return result
}
