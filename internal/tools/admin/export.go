package admin

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	progressbar "github.com/schollz/progressbar/v3"
	excelize "github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"ID", "Game", "Date", "Time", "Away", "Home", "Arena",
	"Referee 1", "Referee 2", "Linesperson 1", "Linesperson 2",
}

// Export writes every game to an Excel workbook at ctx.Output.
// Without an output, or on a dry run, the rows are printed instead.
func Export(ctx *Context) error {
	games, err := AllGames(ctx)
	if err != nil {
		return fmt.Errorf("Export: %w", err)
	}

	xl, err := makeScheduleExcelFile(games, ctx.NoProgress)
	if err != nil {
		return fmt.Errorf("Export: failed to make schedule rows: %w", err)
	}
	defer xl.Close()

	if ctx.Output == "" || ctx.DryRun {
		sheetName := xl.GetSheetName(xl.GetActiveSheetIndex())
		rows, err := xl.Rows(sheetName)
		if err != nil {
			return fmt.Errorf("Export: failed to get Excel row iterator: %w", err)
		}
		for rows.Next() {
			row, err := rows.Columns()
			if err != nil {
				return fmt.Errorf("Export: failed to get Excel cells from row iterator: %w", err)
			}
			fmt.Fprintln(ctx.Out, strings.Join(row, ", "))
		}
		return rows.Close()
	}

	writer, err := openFileOrGSWriter(ctx, ctx.Output)
	if err != nil {
		return fmt.Errorf("Export: failed to open '%s': %w", ctx.Output, err)
	}

	if _, err := xl.WriteTo(writer); err != nil {
		writer.Close()
		return fmt.Errorf("Export: failed to write Excel file: %w", err)
	}
	// object uploads are only committed on Close
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Export: failed to finish writing '%s': %w", ctx.Output, err)
	}
	ctx.Log.Info().Int("games", len(games)).Str("output", ctx.Output).Msg("schedule exported")
	return nil
}

func makeScheduleExcelFile(games []aggregate.GameView, noProgress bool) (*excelize.File, error) {
	outExcel := excelize.NewFile()
	sheetName := outExcel.GetSheetName(outExcel.GetActiveSheetIndex())
	for col, h := range exportHeader {
		if err := setCell(outExcel, sheetName, col, 0, h); err != nil {
			return nil, err
		}
	}

	bar := progressbar.NewOptions(len(games),
		progressbar.OptionSetDescription("exporting"),
		progressbar.OptionSetVisibility(!noProgress),
	)
	for i, g := range games {
		arena := ""
		if g.HomeTeamData != nil {
			arena = g.HomeTeamData.ArenaName
		}
		row := []string{g.ID, g.GameID, g.GameDate, g.GameTime, g.AwayTeam, g.HomeTeam, arena}
		for _, slot := range firestore.Slots {
			row = append(row, g.Official(slot))
		}
		for col, str := range row {
			if err := setCell(outExcel, sheetName, col, i+1, str); err != nil {
				return nil, err
			}
		}
		bar.Add(1)
	}
	bar.Finish()
	return outExcel, nil
}

func setCell(xl *excelize.File, sheetName string, col, row int, str string) error {
	index, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return xl.SetCellStr(sheetName, index, str)
}

func openFileOrGSWriter(ctx context.Context, f string) (io.WriteCloser, error) {
	u, err := url.Parse(f)
	if err != nil {
		return nil, err
	}
	var w io.WriteCloser
	switch u.Scheme {
	case "gs":
		gsClient, err := storage.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		// URL path has leading slash, but GS expects path relative to bucket.
		path := strings.TrimPrefix(u.Path, "/")
		w = &gsWriter{Writer: gsClient.Bucket(u.Host).Object(path).NewWriter(ctx), client: gsClient}

	case "file":
		fallthrough
	case "":
		w, err = os.Create(u.Path)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unable to determine how to open '%s'", f)
	}

	return w, nil
}

// gsWriter closes its storage client along with the object.
type gsWriter struct {
	*storage.Writer
	client *storage.Client
}

func (w *gsWriter) Close() error {
	err := w.Writer.Close()
	if cerr := w.client.Close(); err == nil {
		err = cerr
	}
	return err
}
