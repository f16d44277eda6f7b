// Package export renders the schedule and the address book in formats
// other programs can import.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmynk/jobbook/internal/models"
)

const (
	ICSProductID   = "-//Jobbook//Schedule//EN"
	ICSContentType = "text/calendar; charset=utf-8"

	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	icsDate        = "20060102"
	icsLocalTime   = "20060102T150405"
	icsUTCTime     = "20060102T150405Z"
	defaultJobSpan = time.Hour

	// maxLineOctets is the content line limit before folding (RFC 5545 3.1).
	maxLineOctets = 75
)

// WriteICS writes jobs as an iCalendar feed. Jobs with an HH:MM time become
// one-hour events in floating local time, other jobs become all-day events.
// Jobs whose date is not YYYY-MM-DD are skipped.
func WriteICS(w io.Writer, calendarName string, jobs []models.Job, now time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		bw.WriteString(foldLine(fmt.Sprintf(format, args...)))
		bw.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("METHOD:PUBLISH")
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:%s", escapeText(calendarName))

	stamp := now.UTC().Format(icsUTCTime)
	for _, job := range jobs {
		date, err := time.Parse(dateLayout, job.Date)
		if err != nil {
			continue
		}

		line("BEGIN:VEVENT")
		line("UID:job-%d@jobbook", job.ID)
		line("DTSTAMP:%s", stamp)
		if start, ok := jobStart(date, job.Time); ok {
			line("DTSTART:%s", start.Format(icsLocalTime))
			line("DTEND:%s", start.Add(defaultJobSpan).Format(icsLocalTime))
		} else {
			line("DTSTART;VALUE=DATE:%s", date.Format(icsDate))
			line("DTEND;VALUE=DATE:%s", date.AddDate(0, 0, 1).Format(icsDate))
		}
		line("SUMMARY:%s", escapeText(job.Customer))
		if job.Description != "" {
			line("DESCRIPTION:%s", escapeText(job.Description))
		}
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return bw.Flush()
}

func jobStart(date time.Time, clock string) (time.Time, bool) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, false
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
}

// foldLine splits s into lines of at most 75 octets joined by CRLF and a
// space, never inside a UTF-8 sequence.
func foldLine(s string) string {
	if len(s) <= maxLineOctets {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		n := utf8.RuneLen(r)
		if n < 0 {
			n = len(string(r))
		}
		if width+n > maxLineOctets {
			b.WriteString("\r\n ")
			width = 1
		}
		b.WriteRune(r)
		width += n
	}
	return b.String()
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// escapeText escapes a TEXT property value per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
