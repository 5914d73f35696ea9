// Command-line entry point for the AIS parser.
//
// Note about input formats
// ------------------------
// The decode and archive commands expect raw NMEA 0183 lines, one sentence
// per line, as produced by receivers like rtl-ais or by AIS aggregator dumps:
//
//   !AIVDM,1,1,,B,177KQJ5000G?tO`K>RA1wUbN0TKH,0*5C
//
// Lines that are not encapsulation sentences ('$' talker sentences, blank
// lines) are skipped. Multi-fragment messages are grouped by sequential
// message id and decoded once the last fragment arrives. Use -all to keep
// messages even if no field decoder is registered for their type.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ais_parser/internal/ais"
	_ "ais_parser/internal/decoders" // register all field decoders via init()
	"ais_parser/internal/feed"
	"ais_parser/internal/nmea"
	"ais_parser/internal/registry"
	"ais_parser/internal/storage"
)

type Stats struct {
	Lines     int
	Ignored   int
	BadFrame  int
	Fragments int
	Assembled int
	Decoded   int
	NoDecoder int
	Emitted   int
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "ais_parser - commands:")
	fmt.Fprintln(w, "  decode   - parse raw NMEA lines and output decoded JSON")
	fmt.Fprintln(w, "  archive  - parse raw NMEA lines into a local SQLite archive")
	fmt.Fprintln(w, "  listen   - consume a live feed and store positions and vessels")
	fmt.Fprintln(w, "  vessel   - look up a vessel and its recent positions")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ais_parser decode -input nmea.txt [-output out.json] [-pretty] [-all] [-stats]")
	fmt.Fprintln(w, "  ais_parser archive -input nmea.txt -db ais.db [-stats]")
	fmt.Fprintln(w, "  ais_parser listen [-nats nats://host:4222 -subject ais.raw | -ws wss://host/stream] [-init]")
	fmt.Fprintln(w, "  ais_parser vessel -mmsi 477553000 [-limit 10]   (mmsi 0 prints registry totals)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - Input must be raw NMEA 0183, one sentence per line.")
	fmt.Fprintln(w, "  - listen writes positions to ClickHouse and vessels to PostgreSQL.")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "decode":
		runDecode(os.Args[2:])
	case "archive":
		runArchive(os.Args[2:])
	case "listen":
		runListen(os.Args[2:])
	case "vessel":
		runVessel(os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	inPath := fs.String("input", "", "Input NMEA file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	includeAll := fs.Bool("all", false, "Include messages even if no field decoder matched")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	out := make([]map[string]any, 0, 1024)
	st := &Stats{}
	grouper := feed.NewGrouper()

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		st.Lines++
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}

		pkt, ok := feedLine(grouper, []byte(line), st)
		if !ok || pkt == nil {
			continue
		}

		msg, err := ais.Decode(pkt)
		if err != nil {
			if errors.Is(err, registry.ErrUnsupportedType) {
				st.NoDecoder++
				if *includeAll {
					out = append(out, exportUndecoded(pkt))
					st.Emitted++
				}
				continue
			}
			fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
			continue
		}
		st.Decoded++
		out = append(out, msg.Export())
		st.Emitted++
	}

	if err := scan.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}

	var wout io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		wout = f
	}

	enc, err := marshalJSON(out, *pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}
	_, _ = wout.Write(enc)
	if wout == os.Stdout {
		_, _ = wout.Write([]byte("\n"))
	}

	if *showStats {
		printStats(st, grouper)
	}
}

func runArchive(args []string) {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	inPath := fs.String("input", "", "Input NMEA file (default: stdin)")
	dbPath := fs.String("db", "ais.db", "SQLite archive path")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open archive: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	st := &Stats{}
	grouper := feed.NewGrouper()

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		st.Lines++
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}

		pkt, ok := feedLine(grouper, []byte(line), st)
		if !ok || pkt == nil {
			continue
		}

		msg, err := ais.Decode(pkt)
		if err != nil {
			if errors.Is(err, registry.ErrUnsupportedType) {
				st.NoDecoder++
				continue
			}
			fmt.Fprintf(os.Stderr, "decode failed: %v\n", err)
			continue
		}
		st.Decoded++

		if _, err := db.Insert(storage.InsertParams{
			ReceivedAt: time.Now(),
			Talker:     pkt.Talker,
			Channel:    pkt.Channel,
			TypeID:     int(msg.TypeID),
			MMSI:       messageMMSI(msg),
			Raw:        string(pkt.Raw),
			Fields:     msg.Fields,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "archive insert failed: %v\n", err)
			continue
		}
		st.Emitted++
	}

	if err := scan.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}

	if *showStats {
		printStats(st, grouper)
		if stats, err := db.GetStats(); err == nil {
			fmt.Fprintf(os.Stderr, "archive: total=%d vessels=%d by_type=%v\n",
				stats.TotalMessages, stats.UniqueVessels, stats.ByType)
		}
	}
}

func runListen(args []string) {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	natsURL := fs.String("nats", "", "NATS server URL (e.g. nats://localhost:4222)")
	subject := fs.String("subject", "ais.raw", "NATS subject carrying raw sentences")
	wsURL := fs.String("ws", "", "Websocket feed URL (e.g. wss://host/stream)")
	chHost := fs.String("ch-host", "localhost", "ClickHouse host")
	pgHost := fs.String("pg-host", "localhost", "PostgreSQL host")
	initSchema := fs.Bool("init", false, "Create database schemas before listening")
	_ = fs.Parse(args)

	if (*natsURL == "") == (*wsURL == "") {
		fmt.Fprintln(os.Stderr, "listen requires exactly one of -nats or -ws")
		os.Exit(2)
	}

	ctx := context.Background()

	cfg := storage.DefaultConfig()
	cfg.ClickHouse.Host = *chHost
	cfg.Postgres.Host = *pgHost

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open databases: %v", err)
	}
	defer db.Close()

	if *initSchema {
		if err := db.CreateSchemas(ctx); err != nil {
			log.Fatalf("create schemas: %v", err)
		}
	}

	lines := make(chan []byte)
	var stream *feed.Stream
	var src *feed.NATSSource

	if *natsURL != "" {
		src, err = feed.ConnectNATS(*natsURL)
		if err != nil {
			log.Fatalf("nats: %v", err)
		}
		defer src.Close()
		if err := src.Subscribe(*subject, func(raw []byte) { lines <- raw }); err != nil {
			log.Fatalf("nats: %v", err)
		}
		log.Printf("listening on %s subject %s", *natsURL, *subject)
	} else {
		stream = feed.NewStream(*wsURL)
		go stream.ConnectAndStream()
		lines = stream.Lines
		log.Printf("streaming from %s", *wsURL)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	grouper := feed.NewGrouper()
	st := &Stats{}

	for {
		select {
		case <-sig:
			log.Printf("shutting down: lines=%d decoded=%d stored=%d", st.Lines, st.Decoded, st.Emitted)
			if stream != nil {
				stream.Stop()
			}
			return
		case raw := <-lines:
			st.Lines++
			pkt, ok := feedLine(grouper, raw, st)
			if !ok || pkt == nil {
				continue
			}

			msg, err := ais.Decode(pkt)
			if err != nil {
				if errors.Is(err, registry.ErrUnsupportedType) {
					st.NoDecoder++
					continue
				}
				log.Printf("decode failed: %v", err)
				continue
			}
			st.Decoded++

			if err := store(ctx, db, msg); err != nil {
				log.Printf("store failed: %v", err)
				continue
			}
			st.Emitted++
		}
	}
}

func runVessel(args []string) {
	fs := flag.NewFlagSet("vessel", flag.ExitOnError)
	mmsi := fs.Int64("mmsi", 0, "Vessel MMSI (0 prints registry totals)")
	limit := fs.Int("limit", 10, "Max recent positions to include")
	chHost := fs.String("ch-host", "localhost", "ClickHouse host")
	pgHost := fs.String("pg-host", "localhost", "PostgreSQL host")
	_ = fs.Parse(args)

	ctx := context.Background()

	cfg := storage.DefaultConfig()
	cfg.ClickHouse.Host = *chHost
	cfg.Postgres.Host = *pgHost

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open databases: %v", err)
	}
	defer db.Close()

	out := map[string]any{}

	if *mmsi == 0 {
		vessels, err := db.PG.CountVessels(ctx)
		if err != nil {
			log.Fatalf("count vessels: %v", err)
		}
		positions, err := db.CH.CountPositions(ctx, 0)
		if err != nil {
			log.Fatalf("count positions: %v", err)
		}
		out["vessels"] = vessels
		out["positions"] = positions
	} else {
		v, err := db.PG.GetVessel(ctx, *mmsi)
		if err != nil {
			log.Fatalf("get vessel: %v", err)
		}
		if v == nil {
			fmt.Fprintf(os.Stderr, "no vessel %d in the registry\n", *mmsi)
			os.Exit(1)
		}
		count, err := db.CH.CountPositions(ctx, uint32(*mmsi))
		if err != nil {
			log.Fatalf("count positions: %v", err)
		}
		recent, err := db.CH.QueryPositions(ctx, storage.PositionQueryParams{
			MMSI:      uint32(*mmsi),
			Limit:     *limit,
			OrderDesc: true,
		})
		if err != nil {
			log.Fatalf("query positions: %v", err)
		}
		out["vessel"] = v
		out["position_count"] = count
		out["recent_positions"] = recent
	}

	enc, err := marshalJSON(out, true)
	if err != nil {
		log.Fatalf("JSON encode: %v", err)
	}
	_, _ = os.Stdout.Write(enc)
	_, _ = os.Stdout.Write([]byte("\n"))
}

// store routes one decoded message to its database: position reports to
// ClickHouse, static reports to the vessel registry.
func store(ctx context.Context, db *storage.DB, msg *ais.Message) error {
	now := time.Now()

	if pos, ok := storage.ExtractPosition(msg, now); ok {
		if err := db.CH.InsertPosition(ctx, pos); err != nil {
			return err
		}
		return db.PG.TouchVessel(ctx, int64(pos.MMSI))
	}

	if v, ok := storage.ExtractVessel(msg); ok {
		return db.PG.UpsertVessel(ctx, v)
	}

	return db.PG.TouchVessel(ctx, messageMMSI(msg))
}

// feedLine parses one raw line and feeds it to the grouper. The bool result
// is false when the line was skipped; a nil packet with ok=true means a
// fragment was buffered.
func feedLine(grouper *feed.Grouper, raw []byte, st *Stats) (*nmea.Packet, bool) {
	s, err := nmea.Parse(raw)
	if err != nil {
		if errors.Is(err, nmea.ErrIgnored) {
			st.Ignored++
		} else {
			st.BadFrame++
			fmt.Fprintf(os.Stderr, "bad sentence: %v\n", err)
		}
		return nil, false
	}

	if s.IsMulti() {
		st.Fragments++
	}

	pkt, err := grouper.Add(s)
	if err != nil {
		st.BadFrame++
		fmt.Fprintf(os.Stderr, "fragment grouping: %v\n", err)
		return nil, false
	}
	if pkt != nil && pkt.FragmentCount > 1 {
		st.Assembled++
	}
	return pkt, true
}

func exportUndecoded(pkt *nmea.Packet) map[string]any {
	return map[string]any{
		"nmea": map[string]any{
			"raw":            string(pkt.Raw),
			"talker":         pkt.Talker,
			"formatter":      pkt.Formatter,
			"fragment_count": pkt.FragmentCount,
			"seq_id":         pkt.SeqID,
			"channel":        pkt.Channel,
			"payload":        string(pkt.Payload),
			"bits":           pkt.Bits.String(),
			"type":           pkt.TypeID,
		},
	}
}

func messageMMSI(msg *ais.Message) int64 {
	if v, ok := msg.Field("mmsi"); ok {
		if u, ok := v.(uint64); ok {
			return int64(u)
		}
	}
	return 0
}

func printStats(st *Stats, grouper *feed.Grouper) {
	fmt.Fprintf(os.Stderr,
		"stats: lines=%d ignored=%d bad=%d fragments=%d assembled=%d decoded=%d no_decoder=%d emitted=%d pending=%d\n",
		st.Lines, st.Ignored, st.BadFrame, st.Fragments, st.Assembled, st.Decoded, st.NoDecoder, st.Emitted,
		grouper.PendingGroups(),
	)
}

func marshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
