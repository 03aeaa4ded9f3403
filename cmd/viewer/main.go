package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Read-only inspector for the gateway store. Opens the database even while
// the gateway holds the lock, so it is safe against a live instance.
func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, ntf:, member:, profile:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("Scanning %q in %s\n\n", *prefix, *dbPath)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Owner", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Id indexes only point at primary keys, nothing to render.
			if strings.HasPrefix(key, "msgid:") || strings.HasPrefix(key, "ntfid:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(renderRow(key, v))
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Green.Printf("\n%d entries\n", count)
}

// renderRow decodes the JSON record behind a key. Records that don't parse
// are shown raw rather than aborting the scan.
func renderRow(key string, val []byte) []string {
	var record struct {
		Sender  string `json:"sender"`
		User    string `json:"user"`
		Type    string `json:"type"`
		Content string `json:"content"`
		At      int64  `json:"at"`
	}
	if err := json.Unmarshal(val, &record); err != nil {
		return []string{key, "RAW", "--:--:--", "-", fmt.Sprintf("%d bytes", len(val))}
	}

	rowType := "MESSAGE"
	owner := record.Sender
	if strings.HasPrefix(key, "ntf:") {
		rowType = record.Type
		owner = record.User
	}
	at := "--:--:--"
	if record.At > 0 {
		at = time.Unix(0, record.At).UTC().Format("15:04:05")
	}
	return []string{key, rowType, at, owner, record.Content}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
