// Command stamp-audit scans the stamps table for guardians holding more
// than one stamp on the same calendar day. The unique index on
// (card_id, stamp_date) should make duplicates impossible; this tool
// exists to verify that after migrations or manual data fixes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type duplicate struct {
	GuardianID string    `db:"guardian_id"`
	StampDate  time.Time `db:"stamp_date"`
	Count      int       `db:"count"`
}

func main() {
	var (
		dsn     string
		year    int
		timeout time.Duration
	)
	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.IntVar(&year, "year", time.Now().Year(), "Card year to audit")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing -dsn (or DATABASE_URL)")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var dupes []duplicate
	err = db.SelectContext(ctx, &dupes, `
		SELECT sc.guardian_id, s.stamp_date, COUNT(*) AS count
		FROM stamps s
		JOIN stamp_cards sc ON sc.id = s.card_id
		WHERE sc.year = $1
		GROUP BY sc.guardian_id, s.stamp_date
		HAVING COUNT(*) > 1
		ORDER BY sc.guardian_id, s.stamp_date`, year)
	if err != nil {
		log.Fatalf("query: %v", err)
	}

	if len(dupes) == 0 {
		fmt.Printf("no duplicate stamps found for %d\n", year)
		return
	}

	fmt.Printf("found %d duplicate stamp days for %d:\n", len(dupes), year)
	for _, d := range dupes {
		fmt.Printf("  guardian=%s date=%s count=%d\n", d.GuardianID, d.StampDate.Format("2006-01-02"), d.Count)
	}
	os.Exit(1)
}
