package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/passiveds/internal/config"
	"github.com/san-kum/passiveds/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCTRL\tDIM\tTIME\tDURATION\tDT\tINTEG\tTRACKING\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2fs\t%.4fs\t%s\t%.4f\t%s\n",
			run.ID,
			run.Controller,
			run.Dim,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Metrics["tracking_rms"],
			status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controller: %s\n", meta.Controller)
	fmt.Printf("cycles: %d\n\n", len(series.Times))

	plot := func(caption string, data ...[]float64) {
		graph := asciigraph.PlotMany(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Blue),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	plot("|v| (green) and |v_d| (blue)", storage.Norms(series.Current), storage.Norms(series.Desired))
	plot("|u| effort", storage.Norms(series.Effort))

	if components {
		for i := 0; i < meta.Dim; i++ {
			plot(fmt.Sprintf("v%d (green) and vd%d (blue)", i, i),
				storage.Column(series.Current, i),
				storage.Column(series.Desired, i),
			)
		}
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}

	f, err := os.Open(st.CyclesPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			p := config.GetPreset(name)
			fmt.Printf("%-12s dim=%d eigenvalues=%v setpoints=%d\n", name, p.Controller.Dim, p.Controller.Eigenvalues, len(p.Setpoints))
		}
		return nil
	}

	p := config.GetPreset(args[0])
	if p == nil {
		return errors.Errorf("unknown preset %q", args[0])
	}
	out, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
