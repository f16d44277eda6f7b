// Package calendar builds the month grid shown on the schedule page.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/jobbook/internal/models"
)

// Year bounds accepted from query strings.
const (
	MinYear = 1
	MaxYear = 9999
)

// YearMonth is a month of a specific year.
type YearMonth struct {
	Year  int
	Month int
}

// Day is one cell of the month grid. Number is 0 for cells outside the month.
type Day struct {
	Number int
	Date   string // YYYY-MM-DD, empty for padding cells
	Jobs   []models.Job
}

// MonthView is everything the schedule page needs to draw one month.
type MonthView struct {
	Year      int
	Month     int
	MonthName string
	Weeks     [][]Day
	Prev      YearMonth
	Next      YearMonth

	// JobsByDate maps a YYYY-MM-DD string to the jobs on that date,
	// including dates outside the displayed month.
	JobsByDate map[string][]models.Job
}

// MonthDays returns the week-major grid of day numbers for the month.
// Weeks start on Sunday and cells outside the month are 0, so every week
// has exactly seven entries.
func MonthDays(year, month int) [][7]int {
	first := time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
	offset := int(first.Weekday()) // Sunday == 0

	var weeks [][7]int
	var week [7]int
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// Prev returns the month before (year, month), wrapping January to
// December of the previous year.
func Prev(year, month int) YearMonth {
	if month > 1 {
		return YearMonth{Year: year, Month: month - 1}
	}
	return YearMonth{Year: year - 1, Month: 12}
}

// Next returns the month after (year, month), wrapping December to
// January of the following year.
func Next(year, month int) YearMonth {
	if month < 12 {
		return YearMonth{Year: year, Month: month + 1}
	}
	return YearMonth{Year: year + 1, Month: 1}
}

// ParseYearMonth reads year and month query values. Each value that is
// absent, not an integer, or out of range falls back to now.
func ParseYearMonth(yearStr, monthStr string, now time.Time) YearMonth {
	ym := YearMonth{Year: now.Year(), Month: int(now.Month())}

	if y, err := strconv.Atoi(strings.TrimSpace(yearStr)); err == nil && y >= MinYear && y <= MaxYear {
		ym.Year = y
	}
	if m, err := strconv.Atoi(strings.TrimSpace(monthStr)); err == nil && m >= 1 && m <= 12 {
		ym.Month = m
	}
	return ym
}

// GroupJobsByDate groups jobs by their Date field in a single pass.
// Jobs within a date keep their relative order from the input list.
func GroupJobsByDate(jobs []models.Job) map[string][]models.Job {
	byDate := make(map[string][]models.Job)
	for _, job := range jobs {
		byDate[job.Date] = append(byDate[job.Date], job)
	}
	return byDate
}

// DateKey formats a calendar day the way job dates are stored.
func DateKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// BuildMonth assembles the grid for (year, month) with the given jobs
// attached to their days.
func BuildMonth(year, month int, jobs []models.Job) MonthView {
	byDate := GroupJobsByDate(jobs)

	grid := MonthDays(year, month)
	weeks := make([][]Day, len(grid))
	for i, week := range grid {
		days := make([]Day, len(week))
		for j, n := range week {
			if n == 0 {
				continue
			}
			key := DateKey(year, month, n)
			days[j] = Day{Number: n, Date: key, Jobs: byDate[key]}
		}
		weeks[i] = days
	}

	return MonthView{
		Year:       year,
		Month:      month,
		MonthName:  time.Month(month).String(),
		Weeks:      weeks,
		Prev:       Prev(year, month),
		Next:       Next(year, month),
		JobsByDate: byDate,
	}
}
