package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	app "defect-lens/internal/application"
	"defect-lens/internal/container"
	"defect-lens/internal/domain/entity"
	"defect-lens/internal/presentation"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"

	// локальная сессия терминала одна
	terminalSessionID = 0
	terminalChatID    = 0

	retryHint = "Press Enter to try the camera again."
)

var errAnalysisFailed = errors.New(presentation.AnalysisFailedMessage)

// NewScanCmd создаёт команду интерактивной проверки с камерой хоста
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inspect a part with the host camera",
		Long: `Interactive inspection on the host camera.

Keys (followed by Enter):
  Enter  start the camera, then capture a frame
  s      stop the camera stream
  r      reset and start a new scan
  q      quit

Examples:
  # Interactive session
  defect-lens scan

  # Analyze an existing photo and print JSON
  defect-lens scan --image part.jpg --format json`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("image", "i", "", "Analyze a JPEG file instead of the camera")
	cmd.Flags().StringP("format", "f", formatMarkdown, "Report format: markdown or json")

	return cmd
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != formatMarkdown && format != formatJSON {
		return fmt.Errorf("unknown format %q: use markdown or json", format)
	}
	imagePath, _ := cmd.Flags().GetString("image")

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	c := container.New(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term := newTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), c.InspectionService, c.CaptureSurface, format)

	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		return term.inspectOnce(ctx, entity.NewJPEGImage(data))
	}

	return term.run(ctx)
}

// terminal интерактивная сессия проверки в консоли
type terminal struct {
	in          *bufio.Scanner
	out         io.Writer
	inspections *app.InspectionService
	capture     *app.CaptureSurface
	format      string
}

func newTerminal(in io.Reader, out io.Writer, inspections *app.InspectionService, capture *app.CaptureSurface, format string) *terminal {
	return &terminal{
		in:          bufio.NewScanner(in),
		out:         out,
		inspections: inspections,
		capture:     capture,
		format:      format,
	}
}

// run читает команды до q, конца ввода или отмены ctx. Камера освобождается на выходе.
func (t *terminal) run(ctx context.Context) error {
	defer t.capture.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		session, err := t.inspections.Session(ctx, terminalSessionID, terminalChatID)
		if err != nil {
			return err
		}
		t.prompt(session)

		if !t.in.Scan() {
			return t.in.Err()
		}

		switch strings.ToLower(strings.TrimSpace(t.in.Text())) {
		case "":
			if err := t.enter(ctx, session); err != nil {
				return err
			}
		case "s":
			t.capture.Stop()
			t.println("Camera stopped.")
		case "r":
			if _, err := t.inspections.Reset(ctx, terminalSessionID, terminalChatID); err != nil {
				return err
			}
			t.println("Ready for a new scan.")
		case "q":
			return nil
		default:
			t.println("Unknown key. Use Enter, s, r or q.")
		}
	}
}

// enter запускает камеру, а если она уже работает, снимает кадр и анализирует его
func (t *terminal) enter(ctx context.Context, session *entity.Session) error {
	if session.State != entity.StateIdle {
		t.println("Press r to start a new scan.")
		return nil
	}

	if !t.capture.Active() {
		if err := t.capture.Start(ctx); err != nil {
			t.println(presentation.CameraMessage(err) + " " + retryHint)
			return nil
		}
		w, h := t.capture.Resolution()
		t.println(fmt.Sprintf("Camera ready (%dx%d). Position the part and press Enter to capture.", w, h))
		return nil
	}

	img, err := t.capture.Grab(ctx)
	if err != nil {
		t.println(presentation.CameraMessage(err) + " " + retryHint)
		return nil
	}

	err = t.inspect(ctx, img)
	if errors.Is(err, errAnalysisFailed) {
		t.println(err.Error())
		return nil
	}
	return err
}

// inspectOnce анализ готового снимка без интерактива
func (t *terminal) inspectOnce(ctx context.Context, img entity.EncodedImage) error {
	if err := img.Validate(); err != nil {
		return err
	}
	return t.inspect(ctx, img)
}

func (t *terminal) inspect(ctx context.Context, img entity.EncodedImage) error {
	t.println("Analyzing surface...")

	session, err := t.inspections.Inspect(ctx, terminalSessionID, terminalChatID, img)
	if err != nil {
		return err
	}

	view := presentation.ViewOf(session)
	switch view.Screen {
	case presentation.ScreenResult:
		return t.writeReport(view.Report)
	case presentation.ScreenError:
		return errAnalysisFailed
	}
	return nil
}

func (t *terminal) writeReport(report *entity.InspectionReport) error {
	if t.format == formatJSON {
		enc := json.NewEncoder(t.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return presentation.WriteMarkdown(t.out, report)
}

func (t *terminal) prompt(session *entity.Session) {
	switch {
	case session.State == entity.StateResult || session.State == entity.StateError:
		t.println("[r] new scan  [q] quit")
	case t.capture.Active():
		t.println("[Enter] capture  [s] stop camera  [q] quit")
	default:
		t.println("[Enter] start camera  [q] quit")
	}
}

func (t *terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}
