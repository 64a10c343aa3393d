package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-directory-api/internal/dto"
	"github.com/noah-isme/tutor-directory-api/internal/models"
	"github.com/noah-isme/tutor-directory-api/internal/repository"
	"github.com/noah-isme/tutor-directory-api/internal/service"
	"github.com/noah-isme/tutor-directory-api/pkg/export"
)

type rootOptions struct {
	catalogFile string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "tutorctl",
		Short:         "Query and export the tutor directory offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "catalog YAML file (defaults to the embedded seed)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newReplayCmd(opts),
		newExportCmd(opts),
		newValidateCmd(),
		newHashPasswordCmd(),
	)
	return root
}

func (o *rootOptions) logger(cmd *cobra.Command) *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "logger:", err)
		return zap.NewNop()
	}
	return l
}

func (o *rootOptions) tutorService(cmd *cobra.Command) (*service.TutorService, error) {
	var (
		catalog *repository.MemoryCatalog
		err     error
	)
	if o.catalogFile != "" {
		catalog, err = repository.LoadMemoryCatalog(o.catalogFile)
	} else {
		catalog, err = repository.NewSeedCatalog()
	}
	if err != nil {
		return nil, err
	}
	return service.NewTutorService(catalog, nil, nil, o.logger(cmd), service.TutorServiceConfig{}), nil
}

// searchOverrides maps search flags onto filter keys.
var searchOverrides = []struct {
	flag string
	key  models.FilterKey
}{
	{"search", models.KeySearchTerm},
	{"level", models.KeySelectedLevel},
	{"subject", models.KeySelectedSubject},
	{"location", models.KeySelectedLocation},
	{"rating", models.KeyMinRating},
	{"online", models.KeyOnlineOnly},
	{"sort", models.KeySortBy},
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List tutors matching a listing query such as \"subject=رياضيات&sort=name\"",
		Long: `The query is imported first. Flags such as --rating or --online are then
applied one by one on top of it, the same way the listing page applies edits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.tutorService(cmd)
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			sync := service.NewQuerySync()
			session := service.NewFilterSession(sync.ImportString(raw), sync)
			if err := applySearchFlags(cmd, session); err != nil {
				return err
			}

			state := session.State()
			tutors, _, err := svc.Filter(cmd.Context(), state)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, dto.TutorListing{
					Filters:       state,
					Location:      sync.Location(),
					ActiveFilters: session.ActiveCount(),
					Tutors:        tutors,
				})
			}
			fmt.Fprintf(out, "%s (%d results, %d active filters)\n", sync.Location(), len(tutors), session.ActiveCount())
			return writeTutorTable(out, tutors)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&asJSON, "json", false, "print the listing as JSON")
	flags.String("search", "", "free-text search over names, subjects and locations")
	flags.String("level", "", "education level")
	flags.String("subject", "", "subject")
	flags.String("location", "", "location")
	flags.Float64("rating", 0, "minimum rating (0-5)")
	flags.Bool("online", false, "online tutors only")
	flags.String("sort", "", "rating, reviews, newest or name")
	return cmd
}

func applySearchFlags(cmd *cobra.Command, session *service.FilterSession) error {
	flags := cmd.Flags()
	for _, o := range searchOverrides {
		if !flags.Changed(o.flag) {
			continue
		}
		var value interface{}
		switch o.key {
		case models.KeyMinRating:
			v, err := flags.GetFloat64(o.flag)
			if err != nil {
				return err
			}
			value = v
		case models.KeyOnlineOnly:
			v, err := flags.GetBool(o.flag)
			if err != nil {
				return err
			}
			value = v
		default:
			v, err := flags.GetString(o.flag)
			if err != nil {
				return err
			}
			value = v
		}
		if err := session.Update(o.key, value); err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	return nil
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	var (
		query string
		file  string
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a JSON list of filter ops against an imported query",
		Long: `Reads ops from --file (or stdin when --file is "-"), for example:

  [{"op":"set","key":"minRating","value":4},{"op":"remove","key":"onlineOnly"}]`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.tutorService(cmd)
			if err != nil {
				return err
			}
			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var ops []dto.FilterOp
			if err := json.NewDecoder(bufio.NewReader(in)).Decode(&ops); err != nil {
				return fmt.Errorf("decode ops: %w", err)
			}
			res, err := svc.Replay(cmd.Context(), dto.FilterSessionRequest{Query: query, Ops: ops})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "query string imported before the ops run")
	cmd.Flags().StringVar(&file, "file", "-", "ops file")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		output  string
		fontTTF string
	)
	cmd := &cobra.Command{
		Use:   "export [query]",
		Short: "Write the matching tutors as CSV or PDF",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.tutorService(cmd)
			if err != nil {
				return err
			}
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			exports := service.NewExportService(svc, opts.logger(cmd), export.NewCSVExporter(), export.NewPDFExporter(fontTTF))
			file, err := exports.Tutors(cmd.Context(), format, dto.ParseTutorQueryString(raw))
			if err != nil {
				return err
			}

			if output == "" {
				output = file.Filename
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(file.Payload)
				return err
			}
			if err := os.WriteFile(output, file.Payload, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d tutors to %s\n", file.Rows, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.ExportFormatCSV, "csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout")
	cmd.Flags().StringVar(&fontTTF, "font", os.Getenv("EXPORT_PDF_FONT"), "UTF-8 TrueType font for PDF output")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-catalog <file>",
		Short: "Check a catalog YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := repository.LoadMemoryCatalog(args[0])
			if err != nil {
				return err
			}
			tutors, err := catalog.ListTutors(cmd.Context())
			if err != nil {
				return err
			}
			version, _ := catalog.Version(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tutors, version %s\n", len(tutors), version)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long:  "Reads the password from the argument or, when absent, the first line of stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}
			hash, err := service.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTutorTable(w io.Writer, tutors []models.Tutor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tREVIEWS\tONLINE\tSUBJECTS")
	for _, t := range tutors {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%t\t%s\n", t.ID, t.Name, t.Rating, t.ReviewsCount, t.IsOnline, strings.Join(t.Subjects, ", "))
	}
	return tw.Flush()
}
