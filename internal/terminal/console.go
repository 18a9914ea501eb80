package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	app "skinai-scan/internal/application"
	"skinai-scan/internal/domain/port"
	"skinai-scan/internal/infrastructure/media"
	"skinai-scan/internal/logging"
	"skinai-scan/internal/view"
)

// SessionID сессия терминала всегда одна
const SessionID int64 = 1

const menu = "[p] pick image  [a] analyze  [i] about  [q] quit"

// Console интерактивный интерфейс экрана сканирования
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	scan   *app.ScanService
	logger *zap.Logger
}

// NewConsole создаёт консоль поверх in/out.
func NewConsole(in io.Reader, out io.Writer, scan *app.ScanService, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		in:     bufio.NewScanner(in),
		out:    out,
		scan:   scan,
		logger: logger.Named("terminal"),
	}
}

// Choose печатает нумерованный список и читает номер. Пустой ответ отменяет выбор.
func (c *Console) Choose(ctx context.Context, names []string) (int, bool, error) {
	if len(names) == 0 {
		fmt.Fprintln(c.out, "No images found.")
		return 0, false, nil
	}

	for i, name := range names {
		fmt.Fprintf(c.out, "%3d) %s\n", i+1, name)
	}

	for {
		fmt.Fprint(c.out, "Choose image (empty to cancel): ")
		line, ok := c.readLine()
		if !ok || line == "" {
			return 0, false, nil
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(names) {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d.\n", len(names))
			continue
		}
		return n - 1, true, nil
	}
}

// Run показывает экран и обрабатывает команды до "q" или конца ввода.
func (c *Console) Run(ctx context.Context, library port.MediaLibrary) error {
	if err := c.printScreen(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintf(c.out, "\n%s\n> ", menu)
		line, ok := c.readLine()
		if !ok {
			return c.in.Err()
		}

		switch strings.ToLower(line) {
		case "p", "pick":
			_, err := c.scan.PickImage(ctx, SessionID, library)
			c.report(err)
		case "a", "analyze":
			// Подпись только если анализ действительно начнётся
			if session, err := c.scan.Session(ctx, SessionID); err == nil && session.CanAnalyze() {
				fmt.Fprintln(c.out, view.AnalyzingLabel)
			}
			_, err := c.scan.Analyze(ctx, SessionID)
			c.report(err)
		case "i", "about":
			fmt.Fprintln(c.out, view.About().Text())
			continue
		case "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(c.out, "Unknown command %q.\n", line)
			continue
		}

		if err := c.printScreen(ctx); err != nil {
			return err
		}
	}
}

// ShowAbout печатает экран "About".
func (c *Console) ShowAbout() {
	fmt.Fprintln(c.out, view.About().Text())
}

func (c *Console) printScreen(ctx context.Context) error {
	session, err := c.scan.Session(ctx, SessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	fmt.Fprintf(c.out, "\n%s\n", view.ScanText(session))
	return nil
}

func (c *Console) report(err error) {
	alert := view.AlertFor(err)
	if alert == nil {
		return
	}
	c.logger.Debug("action failed", logging.ErrorFields(err)...)
	fmt.Fprintf(c.out, "\n! %s\n  %s\n", alert.Title, alert.Message)
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// Проверка реализации интерфейса
var _ media.Prompter = (*Console)(nil)
