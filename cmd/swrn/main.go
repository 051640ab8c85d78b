package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/detail"
	"github.com/nevindra/swrn/engine"
	"github.com/nevindra/swrn/extract"
	"github.com/nevindra/swrn/format"
	"github.com/nevindra/swrn/index"
	"github.com/nevindra/swrn/internal/config"
	"github.com/nevindra/swrn/observe"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("SWRN_CONFIG"), "path to swrn.toml")
		build      = flag.Bool("build", false, "index the corpus folder (incremental)")
		rebuild    = flag.Bool("rebuild", false, "wipe and re-index the corpus folder")
		update     = flag.Bool("update", false, "alias for -build")
		stats      = flag.Bool("stats", false, "show index status")
		pr         = flag.String("pr", "", "look up one PR by number")
		text       = flag.String("text", "", "full-text search over page content")
		similar    = flag.String("similar", "", "find PRs similar to a problem title")
		exclude    = flag.String("exclude", "", "PR number to omit from -similar results")
		strictness = flag.Int("strictness", -1, "similar-PR strictness 0-3 (default from config)")
		delta      = flag.String("delta", "", "version window FROM..TO, e.g. 1.8.4-SP32..1.8.4-SP33")
		html       = flag.Bool("html", false, "render output as HTML instead of Markdown")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg := config.Load(*configPath)
	if *strictness < 0 {
		*strictness = cfg.Engine.Strictness
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithBaseVersion(cfg.Corpus.BaseVersion),
		engine.WithCorpus(cfg.Corpus.Folder),
		engine.WithLimits(engine.Limits{
			Results:    cfg.Engine.Results,
			Candidates: cfg.Engine.Candidates,
			Hydrate:    cfg.Engine.Hydrate,
			Keywords:   cfg.Engine.Keywords,
		}),
	}

	if cfg.Observer.Enabled {
		inst, shutdown, err := observe.Init(ctx)
		if err != nil {
			log.Fatalf("observability init: %v", err)
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error("observability shutdown", "error", err)
			}
		}()
		opts = append(opts,
			engine.WithTracer(observe.NewTracer()),
			engine.WithMetrics(inst))
	}

	pdf := extract.PDF{}
	store := index.New(cfg.Index.Path,
		index.WithExtractor(pdf),
		index.WithLogger(logger))
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		log.Fatalf("index init: %v", err)
	}

	eng := engine.New(store, detail.NewParser(pdf, detail.WithLogger(logger)), opts...)

	md, err := run(ctx, eng, runArgs{
		build:      *build || *update,
		rebuild:    *rebuild,
		stats:      *stats,
		pr:         *pr,
		text:       *text,
		similar:    *similar,
		exclude:    *exclude,
		strictness: *strictness,
		delta:      *delta,
		question:   strings.Join(flag.Args(), " "),
	})
	if err != nil {
		fail(err)
	}

	if *html {
		fmt.Println(format.HTML(md))
	} else {
		fmt.Println(md)
	}
}

type runArgs struct {
	build      bool
	rebuild    bool
	stats      bool
	pr         string
	text       string
	similar    string
	exclude    string
	strictness int
	delta      string
	question   string
}

func run(ctx context.Context, eng *engine.Engine, a runArgs) (string, error) {
	switch {
	case a.rebuild:
		res, err := eng.Build(ctx, true)
		if err != nil {
			return "", err
		}
		return format.BuildResult(res), nil

	case a.build:
		res, err := eng.Update(ctx)
		if err != nil {
			return "", err
		}
		return format.BuildResult(res), nil

	case a.stats:
		st, err := eng.Status(ctx)
		if err != nil {
			return "", err
		}
		return format.Stats(st), nil

	case a.pr != "":
		ans, err := eng.LookupPR(ctx, a.pr)
		if err != nil {
			return "", err
		}
		return format.PRAnswer(*ans), nil

	case a.text != "":
		hits, err := eng.SearchText(ctx, a.text, 0)
		if err != nil {
			return "", err
		}
		return textReport(a.text, hits), nil

	case a.similar != "":
		hits, err := eng.SimilarPRs(ctx, a.similar, a.exclude, a.strictness)
		if err != nil {
			return "", err
		}
		return format.SimilarHits(a.similar, hits), nil

	case a.delta != "":
		from, to, ok := strings.Cut(a.delta, "..")
		if !ok {
			return "", fmt.Errorf("delta window %q: want FROM..TO", a.delta)
		}
		d, err := eng.Delta(ctx, strings.TrimSpace(from), strings.TrimSpace(to))
		if err != nil {
			return "", err
		}
		return format.Delta(*d), nil

	case a.question != "":
		ans, err := eng.Query(ctx, a.question)
		if err != nil {
			return "", err
		}
		return format.Answer(ans), nil
	}
	return "", errors.New("nothing to do: pass a question or one of -build, -stats, -pr, -text, -similar, -delta")
}

func textReport(query string, hits []swrn.TextHit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Pages matching %q\n\n", query)
	if len(hits) == 0 {
		b.WriteString("No matching pages.\n")
		return b.String()
	}
	for _, h := range hits {
		fmt.Fprintf(&b, "- %s, page %d (score %.2f)\n  %s\n", h.Filename, h.Page, h.Score, h.Snippet)
	}
	return b.String()
}

func fail(err error) {
	switch {
	case errors.Is(err, swrn.ErrNotIndexed):
		log.Fatal("the index has not been built yet: run with -build first")
	default:
		var notFound *swrn.ErrPRNotFound
		if errors.As(err, &notFound) {
			log.Fatalf("PR-%s is not in the indexed release notes", notFound.PR)
		}
		log.Fatal(err)
	}
}
