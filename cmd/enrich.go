package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"domainintel/internal/config"
	"domainintel/internal/enricher"
	"domainintel/pkg/contacts"
	"domainintel/pkg/domain"
	"domainintel/pkg/filter"
	"domainintel/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

func enrichCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich <domain>... | -",
		Short: "Enriches domains and prints one JSON record per line",
		Long: "Enriches domains and prints one JSON record per line. Records not matching the " +
			"filter flags are omitted. A single \"-\" reads domains from stdin, one per line.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := filterSpec(cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := enrichOptions(cmd.Flags())
			if err != nil {
				return err
			}
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			domains := args
			if len(args) == 1 && args[0] == "-" {
				if domains, err = readDomains(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			c, err := newComponents(cfg, nil)
			if err != nil {
				return err
			}

			return runEnrich(cmd.Context(), c, domains, opts, spec, concurrency, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.Int("max-emails", 0, "Contact quota per domain (0 uses ENRICH_MAX_EMAILS)")
	f.String("source", "", "Contact providers: primary, secondary, both, hunter or snov")
	f.Bool("skip-contacts", false, "Skip contact discovery")
	f.Int("concurrency", 4, "Domains enriched in parallel")
	f.StringSlice("include-tech", nil, "Keep records using any of these technologies")
	f.StringSlice("exclude-tech", nil, "Drop records using any of these technologies")
	f.Bool("require-contact-form", false, "Keep records whose homepage has a contact form")
	f.Bool("require-live-chat", false, "Keep records whose homepage has a live chat")
	f.String("registered-after", "", "Keep domains created after this date (YYYY-MM-DD or RFC3339)")
	f.String("registered-before", "", "Keep domains created before this date (YYYY-MM-DD or RFC3339)")
	f.StringSlice("country", nil, "Keep registrants from these country codes")
	f.Int("min-score", 0, "Keep records scoring at least this much")
	f.String("keyword", "", "Keep records whose domain or registrant organization contains this")

	return cmd
}

func enrichOptions(f *pflag.FlagSet) (enricher.Options, error) {
	maxEmails, _ := f.GetInt("max-emails")
	if maxEmails < 0 {
		return enricher.Options{}, fmt.Errorf("--max-emails must not be negative")
	}
	source, _ := f.GetString("source")
	skip, _ := f.GetBool("skip-contacts")

	return enricher.Options{
		MaxEmails:    maxEmails,
		Preference:   contacts.Preference(source),
		SkipContacts: skip,
	}, nil
}

func filterSpec(f *pflag.FlagSet) (filter.Spec, error) {
	var spec filter.Spec
	spec.IncludeTech, _ = f.GetStringSlice("include-tech")
	spec.ExcludeTech, _ = f.GetStringSlice("exclude-tech")
	spec.RequireContactForm, _ = f.GetBool("require-contact-form")
	spec.RequireLiveChat, _ = f.GetBool("require-live-chat")
	spec.Countries, _ = f.GetStringSlice("country")
	spec.Keyword, _ = f.GetString("keyword")
	if f.Changed("min-score") {
		minScore, _ := f.GetInt("min-score")
		spec.MinScore = &minScore
	}

	for flag, dst := range map[string]**time.Time{
		"registered-after":  &spec.RegisteredAfter,
		"registered-before": &spec.RegisteredBefore,
	} {
		raw, _ := f.GetString(flag)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("invalid --%s: %w", flag, err)
		}
		*dst = &t
	}

	return spec, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse date %q", s)
	}

	return t, nil
}

// readDomains reads one domain per line, skipping blanks and # comments.
func readDomains(r io.Reader) ([]string, error) {
	var out []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("could not read domains: %w", err)
	}

	return out, nil
}

// runEnrich enriches domains with bounded concurrency and writes the records
// passing spec as JSON lines, in input order.
func runEnrich(ctx context.Context,
	c *components,
	domains []string,
	opts enricher.Options,
	spec filter.Spec,
	concurrency int,
	out io.Writer) error {
	records := make([]*domain.Enrichment, len(domains))
	errs := make([]error, len(domains))

	var g errgroup.Group
	g.SetLimit(max(1, concurrency))
	for i, d := range domains {
		g.Go(func() error {
			records[i], errs[i] = c.enricher.Enrich(ctx, d, opts)

			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(out)
	failed := 0
	for i, record := range records {
		if errs[i] != nil {
			failed++
			logger.Error(ctx, "could not enrich domain", zap.String("input", domains[i]), zap.Error(errs[i]))

			continue
		}
		if !c.filter.Evaluate(record, spec) {
			logger.Debug(ctx, "record filtered out", zap.String("domain", record.Domain))

			continue
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("could not write record: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d domains could not be enriched", failed, len(domains))
	}

	return nil
}
