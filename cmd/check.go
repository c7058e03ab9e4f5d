package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/verifier/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
)

var errNoInput = errors.New("either --url or --file is required")

type checkOptions struct {
	file        string
	url         string
	headline    string
	summary     string
	fullText    string
	source      string
	publishedAt string
	players     []string
	teams       []string
	tags        []string
	fee         float64
	reliability int
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify one article and print the result as JSON",
		Long: `Verify one article and print the result as JSON.

Examples:
  # Score an article described by flags
  verifier check --url https://www.bbc.co.uk/sport/1 --headline "Arsenal sign midfielder" \
    --source "David Ornstein" --published-at 2025-08-01T10:00:00Z --tag transfer

  # Score a request document; "-" reads stdin
  verifier check --file request.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			comps, err := bootstrap.NewComponents(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize components: %w", err)
			}
			defer func() { _ = comps.Close() }()

			result := comps.Verifier.Verify(cmd.Context(), req)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "JSON verification request file, - for stdin")
	f.StringVar(&opts.url, "url", "", "article URL")
	f.StringVar(&opts.headline, "headline", "", "headline")
	f.StringVar(&opts.summary, "summary", "", "summary")
	f.StringVar(&opts.fullText, "full-text", "", "full article text")
	f.StringVar(&opts.source, "source", "", "author or outlet as printed")
	f.StringVar(&opts.publishedAt, "published-at", "", "publication timestamp")
	f.StringSliceVar(&opts.players, "player", nil, "player named in the article (repeatable)")
	f.StringSliceVar(&opts.teams, "team", nil, "team named in the article (repeatable)")
	f.StringSliceVar(&opts.tags, "tag", nil, "content tag (repeatable)")
	f.Float64Var(&opts.fee, "fee", 0, "claimed transfer fee")
	f.IntVar(&opts.reliability, "reliability", 0, "publisher-supplied reliability rating")

	return cmd
}

func (o *checkOptions) request(cmd *cobra.Command) (*domain.VerificationRequest, error) {
	if o.file != "" {
		return readRequest(cmd, o.file)
	}
	if o.url == "" {
		return nil, errNoInput
	}

	req := &domain.VerificationRequest{
		URL: o.url,
		Content: domain.ContentDetails{
			Headline:    o.headline,
			Summary:     o.summary,
			FullText:    o.fullText,
			SourceName:  o.source,
			PublishedAt: o.publishedAt,
			Players:     o.players,
			Teams:       o.teams,
			Tags:        o.tags,
		},
	}
	if cmd.Flags().Changed("fee") {
		req.Content.TransferFee = &o.fee
	}
	if cmd.Flags().Changed("reliability") {
		req.Content.Reliability = &o.reliability
	}
	return req, nil
}

func readRequest(cmd *cobra.Command, path string) (*domain.VerificationRequest, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open request file: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	var req domain.VerificationRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if req.URL == "" {
		return nil, errors.New("request url is required")
	}
	return &req, nil
}
