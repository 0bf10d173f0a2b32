package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/inventory"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/stocksync"
	"github.com/jhoicas/Inventario-eventos/internal/bootstrap"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/aggregation"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/pkg/config"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

type rootOptions struct {
	code     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "stockctl",
		Short:         "Operaciones de stock de un evento desde la terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.code, "code", os.Getenv("STOCKCTL_CODE"), "texto del QR que establece la sesión (o STOCKCTL_CODE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "nivel de log (trace, debug, info, warn, error)")

	root.AddCommand(
		newScanCmd(opts),
		newMissingCmd(opts),
		newRelocateCmd(opts),
		newConsumeCmd(opts),
		newLabelsCmd(opts),
	)
	return root
}

// session arma el núcleo y escanea el código; los avisos se imprimen en stderr.
type session struct {
	core     *bootstrap.Core
	resp     *dto.SessionResponse
	stopLogs func()
}

func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	if opts.code == "" {
		return nil, errors.New("--code es requerido")
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: opts.logLevel, Output: cmd.ErrOrStderr()})
	core := bootstrap.New(cfg, log, false)

	toasts, stop := core.Toasts.Subscribe(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for t := range toasts {
			printToast(cmd.ErrOrStderr(), t)
		}
	}()

	resp, err := core.Sessions.Scan(opts.code)
	if err != nil {
		stop()
		<-done
		return nil, err
	}
	return &session{core: core, resp: resp, stopLogs: func() { stop(); <-done }}, nil
}

func (s *session) Close() {
	s.core.Sync.CloseViews()
	s.stopLogs()
}

// mount monta la vista y espera la carga inicial.
func (s *session) mount(cmd *cobra.Command, spec stocksync.ViewSpec) (*stocksync.View, error) {
	v, err := s.core.Sync.Mount(cmd.Context(), spec)
	if err != nil {
		return nil, err
	}
	if err := v.WaitReady(cmd.Context()); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func printToast(w io.Writer, t ports.Toast) {
	if t.Text != "" {
		fmt.Fprintf(w, "[%s] %s: %s\n", t.Kind, t.Code, t.Text)
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", t.Kind, t.Code)
}

// ── scan ──────────────────────────────────────────────────────────────────────

func newScanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Interpreta el código y muestra la sesión y sus rutas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s.resp)
		},
	}
}

// ── missing ───────────────────────────────────────────────────────────────────

func newMissingCmd(opts *rootOptions) *cobra.Command {
	var filter aggregation.MissingFilter
	cmd := &cobra.Command{
		Use:   "missing",
		Short: "Lista los faltantes del evento agrupados por grupo de ítems",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.mount(cmd, stocksync.ViewSpec{Kind: stocksync.ViewMissingItems}); err != nil {
				return err
			}
			list, err := s.core.Overview.Missing(filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GRUPO\tÍTEM\tUBICACIÓN\tSTOCK\tFALTANTE\tESTADO")
			for _, g := range list.Groups {
				for _, r := range g.Items {
					fmt.Fprintf(tw, "%s\t%s (%s)\t%s\t%d\t%d\t%s\n",
						g.Name, r.DisplayName, r.Unit, r.LocationName, r.Stock, r.MissingCount, r.Status)
				}
			}
			fmt.Fprintf(tw, "\ttotal: %d\n", list.Total)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.LocationID, "location", "", "filtrar por ubicación")
	cmd.Flags().StringVar(&filter.ItemID, "item", "", "filtrar por ítem")
	return cmd
}

// ── relocate ──────────────────────────────────────────────────────────────────

func newRelocateCmd(opts *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "relocate ITEM=CANTIDAD...",
		Short: "Traslada ítems entre dos ubicaciones (una fila por argumento)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			res := s.core.RegisterMovement.RelocateBatch(cmd.Context(), from, to, rows)
			return printBatch(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "ubicación origen")
	cmd.Flags().StringVar(&to, "to", "", "ubicación destino")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// ── consume ───────────────────────────────────────────────────────────────────

func newConsumeCmd(opts *rootOptions) *cobra.Command {
	var location, item, amount, target string
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Consume en sitio: --amount con signo o --target (stock final)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (amount == "") == (target == "") {
				return errors.New("indique exactamente uno de --amount o --target")
			}
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			spec := stocksync.ViewSpec{Kind: stocksync.ViewLocationDetails, LocationID: location}
			if s.resp.Permission == string(entity.PermissionLocationUser) {
				// Sesión de ubicación: solo su propia ubicación, resuelta desde el id escaneado.
				spec = stocksync.ViewSpec{Kind: stocksync.ViewLocationDetails, ExternalLocationID: s.resp.PermissionID}
			}
			v, err := s.mount(cmd, spec)
			if err != nil {
				return err
			}

			var out inventory.Outcome
			if target != "" {
				record, err := s.core.Overview.Record(v.LocationID(), item)
				if err != nil {
					return err
				}
				out = s.core.RegisterMovement.ConsumeToTarget(cmd.Context(), record, target)
			} else {
				d, ok := inventory.ParseAmount(amount)
				if !ok {
					return domain.ErrInvalidInput
				}
				out = s.core.RegisterMovement.Consume(cmd.Context(), v.LocationID(), item, d)
			}
			return printOutcome(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "id interno de la ubicación (administrador); con código de ubicación se usa la escaneada")
	cmd.Flags().StringVar(&item, "item", "", "id del ítem")
	cmd.Flags().StringVar(&amount, "amount", "", "cantidad con signo (negativa devuelve)")
	cmd.Flags().StringVar(&target, "target", "", "stock final deseado")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// ── labels ────────────────────────────────────────────────────────────────────

func newLabelsCmd(opts *rootOptions) *cobra.Command {
	var location, out string
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Genera el PDF de etiquetas QR de las ubicaciones del evento",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.core.Sync.FetchLocations(cmd.Context(), s.resp.EventID); err != nil {
				return err
			}
			doc, name, err := s.core.Reports.LocationLabels(cmd.Context(), location)
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "solo esta ubicación")
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (por defecto el nombre sugerido)")
	return cmd
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parseRows lee argumentos ITEM=CANTIDAD. La cantidad se valida después, fila a fila.
func parseRows(args []string) ([]dto.AmountRow, error) {
	rows := make([]dto.AmountRow, 0, len(args))
	for _, a := range args {
		item, amount, ok := strings.Cut(a, "=")
		if !ok || item == "" {
			return nil, fmt.Errorf("fila inválida %q: se espera ITEM=CANTIDAD", a)
		}
		rows = append(rows, dto.AmountRow{ItemID: item, Amount: amount})
	}
	return rows, nil
}

func printBatch(w io.Writer, res inventory.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ÍTEM\tCANTIDAD\tRESULTADO\tDETALLE")
	for _, o := range res.Outcomes {
		d := inventory.ToOutcomeDTO(o)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ItemID, d.Amount, d.Status, outcomeDetail(d))
	}
	fmt.Fprintf(tw, "\tenviadas: %d\tomitidas: %d\tok: %d\n", res.Submitted(), res.Skipped(), res.Succeeded())
	return tw.Flush()
}

func printOutcome(w io.Writer, o inventory.Outcome) error {
	d := inventory.ToOutcomeDTO(o)
	_, err := fmt.Fprintf(w, "%s %s %s %s\n", d.ItemID, d.Amount, d.Status, outcomeDetail(d))
	if o.Err != nil {
		return o.Err
	}
	return err
}

func outcomeDetail(d dto.MovementOutcomeDTO) string {
	if d.Error != "" {
		return d.Error
	}
	msgs := make([]string, len(d.Messages))
	for i, m := range d.Messages {
		msgs[i] = strings.TrimSpace(m.Field + " " + m.Message)
	}
	return strings.Join(msgs, "; ")
}
