package main

import (
	"fmt"
	"strings"
	"time"

	"dailydiet/pkg/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// shellDB is a lazily opened handle on one service database. A nil db means
// the driver rejected the DSN.
type shellDB struct {
	label  string
	driver string
	db     *sqlx.DB
}

func openShellDB(label string, cfg *config.Config) *shellDB {
	db, err := sqlx.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		db = nil
	}
	return &shellDB{label: label, driver: cfg.DatabaseDriver, db: db}
}

func (s *shellDB) close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *shellDB) reachable() bool {
	if s.db == nil || s.db.Ping() != nil {
		fmt.Printf("  %s[x] %s db not reachable%s\n", Red, s.label, Reset)
		return false
	}
	return true
}

func (s *shellDB) showMealMetrics() {
	if !s.reachable() {
		return
	}
	rows, err := s.db.Query(`SELECT metric_date, metric, count
		FROM meal_metrics ORDER BY metric_date DESC, metric LIMIT 30`)
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	defer rows.Close()

	fmt.Printf("  %s%-12s %-14s %s%s\n", Bold, "DATE", "METRIC", "COUNT", Reset)
	fmt.Printf("  %s%s%s\n", Dim, strings.Repeat("-", 45), Reset)
	for rows.Next() {
		var date time.Time
		var metric string
		var count int
		rows.Scan(&date, &metric, &count)
		color := Green
		if metric == "diet.off" {
			color = Yellow
		}
		bar := strings.Repeat("#", min(count, 40))
		fmt.Printf("  %-12s %-14s %s%s%s %d\n", date.Format("2006-01-02"), metric, color, bar, Reset, count)
	}
}

func (s *shellDB) showDailyTotals() {
	if !s.reachable() {
		return
	}
	rows, err := s.db.Query(`SELECT metric_date, SUM(count) AS total
		FROM meal_metrics WHERE metric LIKE 'meal.%'
		GROUP BY metric_date ORDER BY metric_date DESC LIMIT 14`)
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	defer rows.Close()

	fmt.Printf("  %s%sDaily Meal Events%s\n", Bold, White, Reset)
	for rows.Next() {
		var date time.Time
		var total int
		rows.Scan(&date, &total)
		bar := strings.Repeat("#", min(total, 50))
		fmt.Printf("  %-12s %s%s%s %d\n", date.Format("2006-01-02"), Green, bar, Reset, total)
	}
}

func (s *shellDB) showAuditLog() {
	if !s.reachable() {
		return
	}
	rows, err := s.db.Query(`SELECT event_type, session_id, email, matched, recorded_at
		FROM account_audit_log ORDER BY recorded_at DESC LIMIT 20`)
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	defer rows.Close()

	fmt.Printf("  %s%-16s %-10s %-28s %-8s %s%s\n", Bold, "TYPE", "SESSION", "EMAIL", "MATCHED", "TIME", Reset)
	fmt.Printf("  %s%s%s\n", Dim, strings.Repeat("-", 80), Reset)
	for rows.Next() {
		var eventType, sessionID, email string
		var matched bool
		var at time.Time
		rows.Scan(&eventType, &sessionID, &email, &matched, &at)
		color := Green
		if !matched {
			color = Red
		}
		fmt.Printf("  %-16s %-10s %-28s %s%-8t%s %s\n",
			eventType, shortID(sessionID), email, color, matched, Reset, at.Format("15:04:05"))
	}
}

func (s *shellDB) showIdempotencyKeys() {
	if !s.reachable() {
		return
	}
	rows, err := s.db.Query("SELECT event_id, processed_at FROM idempotency_keys ORDER BY processed_at DESC LIMIT 10")
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	defer rows.Close()
	fmt.Printf("  %s%-38s %s%s\n", Bold, "EVENT_ID", "PROCESSED_AT", Reset)
	for rows.Next() {
		var id string
		var at time.Time
		rows.Scan(&id, &at)
		fmt.Printf("  %-38s %s\n", id, at.Format("2006-01-02 15:04:05"))
	}
}

func (s *shellDB) showTables() {
	if !s.reachable() {
		return
	}
	query := "SELECT tablename FROM pg_tables WHERE schemaname = 'public'"
	if s.driver == "sqlite3" {
		query = "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name"
	}

	var names []string
	if err := s.db.Select(&names, query); err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	fmt.Printf("  %s%s%s tables:\n", Bold, s.label, Reset)
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}

func (s *shellDB) rawSQL(query string) {
	if query == "" {
		usage(fmt.Sprintf("sql-%s <query>", s.label))
		return
	}
	if !s.reachable() {
		return
	}
	rows, err := s.db.Queryx(query)
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	defer rows.Close()
	cols, _ := rows.Columns()
	fmt.Printf("  %s%s%s\n", Bold, strings.Join(cols, "\t"), Reset)
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
			return
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			parts[i] = fmt.Sprintf("%v", v)
		}
		fmt.Printf("  %s\n", strings.Join(parts, "\t"))
	}
}
