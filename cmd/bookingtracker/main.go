package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bookingtracker/internal"
	"bookingtracker/internal/booking"
	"bookingtracker/internal/clock"
	"bookingtracker/internal/config"
	"bookingtracker/internal/failure"
	"bookingtracker/internal/listener"
	"bookingtracker/internal/logger"
	"bookingtracker/internal/pipeline"
	"bookingtracker/internal/receipt"
	"bookingtracker/internal/storage"
	"bookingtracker/internal/util"
	"bookingtracker/internal/view"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logger.Init(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	clk := clock.New(cfg.Timezone)
	store := booking.NewStore(storage.NewPersister(cfg, db), clk)

	cmd := os.Args[1]
	switch cmd {
	case "booking:add":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		var d booking.Draft
		bindDraft(fs, &d)
		_ = fs.Parse(os.Args[2:])
		b, err := store.Add(d)
		must(err)
		fmt.Printf("added booking id=%s status=%s remaining=%.2f\n", b.ID, b.Status, b.RemainingBalance)
		notifyAlerts(store.List(), clk.Today())
	case "booking:edit":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "booking id")
		var changes booking.Draft
		bindDraft(fs, &changes)
		_ = fs.Parse(os.Args[2:])
		requireFlag("id", *id)
		current, err := store.Get(*id)
		must(err)
		d := booking.DraftOf(current)
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) {
			set[f.Name] = true
			overlay(&d, changes, f.Name)
		})
		b, err := store.Update(*id, d)
		must(rawDateHint(err, d, set))
		fmt.Printf("updated booking id=%s status=%s remaining=%.2f\n", b.ID, b.Status, b.RemainingBalance)
		notifyAlerts(store.List(), clk.Today())
	case "booking:delete":
		id := idFlag(cmd)
		must(store.Delete(id))
		fmt.Printf("deleted booking id=%s\n", id)
		notifyAlerts(store.List(), clk.Today())
	case "booking:mark-paid":
		id := idFlag(cmd)
		b, err := store.MarkPaid(id)
		must(err)
		fmt.Printf("marked paid id=%s paid=%.2f remaining=%.2f\n", b.ID, b.PaidAmount, b.RemainingBalance)
		notifyAlerts(store.List(), clk.Today())
	case "booking:status":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "booking id")
		status := fs.String("status", "", "confirmed|pending|cancelled|completed")
		_ = fs.Parse(os.Args[2:])
		requireFlag("id", *id)
		requireFlag("status", *status)
		b, err := store.ChangeStatus(*id, internal.BookingStatus(strings.ToLower(*status)))
		must(err)
		fmt.Printf("status changed id=%s status=%s\n", b.ID, b.Status)
		notifyAlerts(store.List(), clk.Today())
	case "booking:show":
		b, err := store.Get(idFlag(cmd))
		must(err)
		printBooking(b)
	case "booking:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		tab := fs.String("tab", string(view.TabAll), "all|paid|unpaid|upcoming|completed|cancelled")
		search := fs.String("search", "", "text to search in client/room, room type and notes")
		from := fs.String("from", "", "check-in on or after YYYY-MM-DD")
		to := fs.String("to", "", "check-in on or before YYYY-MM-DD")
		status := fs.String("status", "", "confirmed|pending|cancelled|completed")
		room := fs.String("room", "", "room type")
		sortField := fs.String("sort", string(view.SortCheckIn), "checkInDate|checkOutDate|clientAndRoom|totalAmount|remainingBalance|status")
		dir := fs.String("dir", string(view.Asc), "asc|desc")
		page := fs.Int("page", 1, "page number")
		size := fs.Int("size", cfg.PageSize, "page size, 0 for everything")
		_ = fs.Parse(os.Args[2:])
		q := view.Query{
			Tab:       view.Tab(*tab),
			Search:    *search,
			From:      *from,
			To:        *to,
			Status:    internal.BookingStatus(*status),
			RoomType:  *room,
			SortField: view.SortField(*sortField),
			Direction: view.Direction(*dir),
			Page:      *page,
			PageSize:  *size,
		}
		must(q.Validate())
		res := view.Apply(store.List(), q, clk.Today())
		for _, b := range res.Items {
			fmt.Printf("%s  %s -> %-10s  %-30s  total=%.2f remaining=%.2f  %s\n",
				shortID(b.ID), b.CheckInDate, b.CheckOutDate, b.ClientAndRoom, b.TotalAmount, b.RemainingBalance, b.Status)
		}
		fmt.Printf("page %d/%d, %d matching bookings\n", *page, res.TotalPages, res.TotalCount)
	case "import:preview":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "xlsx or xls file")
		_ = fs.Parse(os.Args[2:])
		requireFlag("input", *input)
		sheet, err := pipeline.ReadSheetFile(*input)
		must(err)
		fmt.Printf("sheet=%s rows=%d\n", sheet.Name, len(sheet.Rows))
		fmt.Printf("columns: %s\n", strings.Join(sheet.Columns, " | "))
		printMapping(pipeline.DetectColumns(sheet.Columns))
	case "import:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "xlsx or xls file")
		var overrides internal.ColumnMapping
		fs.StringVar(&overrides.CheckIn, "checkin", "", "check-in column ('-' to unassign)")
		fs.StringVar(&overrides.CheckOut, "checkout", "", "check-out column ('-' to unassign)")
		fs.StringVar(&overrides.ClientRoom, "client", "", "client/room column ('-' to unassign)")
		fs.StringVar(&overrides.TotalAmount, "total", "", "total amount column ('-' to unassign)")
		fs.StringVar(&overrides.AdvancePayment, "advance", "", "advance payment column ('-' to unassign)")
		fs.StringVar(&overrides.PaidAmount, "paid", "", "paid amount column ('-' to unassign)")
		_ = fs.Parse(os.Args[2:])
		requireFlag("input", *input)
		sheet, err := pipeline.ReadSheetFile(*input)
		must(err)
		mapping := pipeline.ApplyOverrides(pipeline.DetectColumns(sheet.Columns), overrides)
		svc := pipeline.NewImportService(store, db)
		res, err := svc.Import(sheet, mapping, filepath.Base(*input))
		must(err)
		fmt.Printf("import done trace=%s rows=%d added=%d dropped=%d\n", res.TraceID, res.RowsRead, res.Added, res.Dropped)
		notifyAlerts(store.List(), clk.Today())
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, pipeline.ExportFileName(clk.Today()))
		}
		records := store.List()
		must(pipeline.ExportBookingsToXLSX(records, path))
		fmt.Printf("exported %d bookings to %s\n", len(records), path)
	case "stats":
		st := view.Stats(store.List(), clk.Today())
		fmt.Printf("total bookings:    %d\n", st.TotalBookings)
		fmt.Printf("upcoming bookings: %d\n", st.UpcomingBookings)
		fmt.Printf("total revenue:     %.2f\n", st.TotalRevenue)
		fmt.Printf("paid revenue:      %.2f\n", st.PaidRevenue)
		fmt.Printf("pending revenue:   %.2f\n", st.PendingRevenue)
		fmt.Printf("average stay:      %.1f nights\n", st.AverageStay)
		fmt.Printf("occupancy (room types in use): %.0f%%\n", st.OccupancyRate)
	case "alerts":
		if !notifyAlerts(store.List(), clk.Today()) {
			fmt.Println("no check-ins one week from today")
		}
	case "rooms":
		for _, r := range view.RoomTypes(store.List()) {
			fmt.Println(r)
		}
	case "receipt":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "booking id")
		out := fs.String("out", "", "output html path")
		_ = fs.Parse(os.Args[2:])
		requireFlag("id", *id)
		b, err := store.Get(*id)
		must(err)
		path := *out
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(cfg.OutputDir, "receipt_"+shortID(b.ID)+".html")
		}
		must(os.MkdirAll(filepath.Dir(path), 0o755))
		f, err := os.Create(path)
		must(err)
		err = receipt.Render(f, b, clk.Now())
		_ = f.Close()
		must(err)
		fmt.Printf("receipt written to %s\n", path)
	case "imports:history":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		runs, err := db.ListImportRuns(*limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %s  rows=%d added=%d dropped=%d trace=%s\n", r.CreatedAt, r.Source, r.RowsRead, r.Added, r.Dropped, r.TraceID)
		}
	case "reminder:status":
		for _, key := range []string{listener.MetaLastRun, listener.MetaLastAlerts, listener.MetaLastExport} {
			v, err := db.GetMetadata(key)
			must(err)
			if v == nil {
				fmt.Printf("%-22s never\n", key)
				continue
			}
			fmt.Printf("%-22s %s\n", key, *v)
		}
	case "data:clear":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		yes := fs.Bool("yes", false, "confirm removing every booking")
		_ = fs.Parse(os.Args[2:])
		if !*yes {
			must(fmt.Errorf("refusing to clear %d bookings without --yes", store.Len()))
		}
		must(store.Clear())
		fmt.Println("all bookings removed")
	default:
		usage()
		os.Exit(1)
	}
}

// rawDateHint points at the flag to pass when an imported booking still
// carries date text that never parsed and the edit left it untouched.
func rawDateHint(err error, d booking.Draft, set map[string]bool) error {
	if !failure.Is(err, failure.KindValidation) {
		return err
	}
	for _, f := range []struct{ flag, value string }{{"checkin", d.CheckInDate}, {"checkout", d.CheckOutDate}} {
		if f.value != "" && !set[f.flag] && !util.IsCanonicalDate(f.value) {
			return failure.Validation(fmt.Sprintf("%v (imported as text; pass --%s=YYYY-MM-DD to replace it)", err, f.flag))
		}
	}
	return err
}

// notifyAlerts prints the one-week-ahead check-ins and reports whether there
// were any.
func notifyAlerts(records []internal.Booking, today string) bool {
	alerts := view.UpcomingCheckIns(records, today)
	for _, b := range alerts {
		fmt.Printf("upcoming check-in %s: %s (balance %.2f)\n", b.CheckInDate, b.ClientAndRoom, b.RemainingBalance)
	}
	return len(alerts) > 0
}

func bindDraft(fs *flag.FlagSet, d *booking.Draft) {
	fs.StringVar(&d.CheckInDate, "checkin", "", "check-in date YYYY-MM-DD")
	fs.StringVar(&d.CheckOutDate, "checkout", "", "check-out date YYYY-MM-DD")
	fs.StringVar(&d.ClientAndRoom, "client", "", "client and room")
	fs.Float64Var(&d.TotalAmount, "total", 0, "total amount")
	fs.Float64Var(&d.AdvancePayment, "advance", 0, "advance payment")
	fs.Float64Var(&d.PaidAmount, "paid", 0, "paid amount")
	fs.Func("guests", "guest count (defaults to 1)", func(v string) error {
		d.GuestCount = util.ParseCount(v)
		return nil
	})
	fs.StringVar(&d.RoomType, "room", "", "room type")
	fs.Func("status", "confirmed|pending|cancelled|completed", func(v string) error {
		d.Status = internal.BookingStatus(strings.ToLower(strings.TrimSpace(v)))
		return nil
	})
	fs.StringVar(&d.Notes, "notes", "", "notes")
}

// overlay copies the field behind flag name from src into dst.
func overlay(dst *booking.Draft, src booking.Draft, name string) {
	switch name {
	case "checkin":
		dst.CheckInDate = src.CheckInDate
	case "checkout":
		dst.CheckOutDate = src.CheckOutDate
	case "client":
		dst.ClientAndRoom = src.ClientAndRoom
	case "total":
		dst.TotalAmount = src.TotalAmount
	case "advance":
		dst.AdvancePayment = src.AdvancePayment
	case "paid":
		dst.PaidAmount = src.PaidAmount
	case "guests":
		dst.GuestCount = src.GuestCount
	case "room":
		dst.RoomType = src.RoomType
	case "status":
		dst.Status = src.Status
	case "notes":
		dst.Notes = src.Notes
	}
}

func idFlag(cmd string) string {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	id := fs.String("id", "", "booking id")
	_ = fs.Parse(os.Args[2:])
	requireFlag("id", *id)
	return *id
}

func requireFlag(name, value string) {
	if strings.TrimSpace(value) == "" {
		must(fmt.Errorf("--%s is required", name))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printBooking(b internal.Booking) {
	fmt.Printf("id:                %s\n", b.ID)
	fmt.Printf("client & room:     %s\n", b.ClientAndRoom)
	fmt.Printf("check-in:          %s\n", b.CheckInDate)
	fmt.Printf("check-out:         %s\n", b.CheckOutDate)
	fmt.Printf("guests:            %d\n", b.GuestCount)
	fmt.Printf("room type:         %s\n", b.RoomType)
	fmt.Printf("status:            %s\n", b.Status)
	fmt.Printf("total amount:      %.2f\n", b.TotalAmount)
	fmt.Printf("advance payment:   %.2f\n", b.AdvancePayment)
	fmt.Printf("paid amount:       %.2f\n", b.PaidAmount)
	fmt.Printf("remaining balance: %.2f\n", b.RemainingBalance)
	fmt.Printf("paid in full:      %t\n", b.IsPaid)
	fmt.Printf("notes:             %s\n", b.Notes)
	fmt.Printf("created:           %s\n", b.CreatedAt.Format(internal.TimestampLayout))
	fmt.Printf("updated:           %s\n", b.UpdatedAt.Format(internal.TimestampLayout))
}

func printMapping(m internal.ColumnMapping) {
	fmt.Printf("  check-in        -> %s\n", orDash(m.CheckIn))
	fmt.Printf("  check-out       -> %s\n", orDash(m.CheckOut))
	fmt.Printf("  client/room     -> %s\n", orDash(m.ClientRoom))
	fmt.Printf("  total amount    -> %s\n", orDash(m.TotalAmount))
	fmt.Printf("  advance payment -> %s\n", orDash(m.AdvancePayment))
	fmt.Printf("  paid amount     -> %s\n", orDash(m.PaidAmount))
}

func orDash(s string) string {
	if s == "" {
		return pipeline.Unassign
	}
	return s
}

func usage() {
	fmt.Println("usage: bookingtracker <command>")
	fmt.Println("commands:")
	fmt.Println("  booking:add --checkin=YYYY-MM-DD --client=... [--checkout --total --advance --paid --guests --room --status --notes]")
	fmt.Println("  booking:edit --id=... [same flags as booking:add]")
	fmt.Println("  booking:delete --id=...")
	fmt.Println("  booking:mark-paid --id=...")
	fmt.Println("  booking:status --id=... --status=confirmed|pending|cancelled|completed")
	fmt.Println("  booking:show --id=...")
	fmt.Println("  booking:list [--tab --search --from --to --status --room --sort --dir --page --size]")
	fmt.Println("  import:preview --input=./bookings.xlsx")
	fmt.Println("  import:xlsx --input=./bookings.xlsx [--checkin --checkout --client --total --advance --paid]")
	fmt.Println("  export:xlsx [--out=./out/bookings.xlsx]")
	fmt.Println("  stats")
	fmt.Println("  alerts")
	fmt.Println("  rooms")
	fmt.Println("  receipt --id=... [--out=./out/receipt.html]")
	fmt.Println("  imports:history [--limit=20]")
	fmt.Println("  reminder:status")
	fmt.Println("  data:clear --yes")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
