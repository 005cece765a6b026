// Command validate runs one detection pass over a CSV file and prints the
// reconciled issue list. It exists so the engine can be exercised without the
// HTTP surface; materializing the CSV happens here, never in the core.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Vikram2406/Hackathon-DQ/internal/config"
	"github.com/Vikram2406/Hackathon-DQ/internal/core"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

func main() {
	csvPath := flag.String("csv", "", "path to the CSV file to validate")
	cfgPath := flag.String("config", "config/config.toml", "path to the TOML config")
	agentList := flag.String("agents", "", "comma-separated agent ids (default: all)")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: validate -csv <file.csv> [-config <config.toml>] [-agents email,company]")
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.LoadOrDefault(*cfgPath)

	ds, err := loadCSV(*csvPath)
	if err != nil {
		logger.Fatal("failed to load CSV", zap.Error(err))
	}

	client, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		logger.Warn("no reasoning client; deterministic checks only", zap.Error(err))
		client = nil
	}

	var enabled []string
	if *agentList != "" {
		enabled = strings.Split(*agentList, ",")
	} else {
		enabled = cfg.Agents.Enabled
	}

	engine := core.NewEngine(cfg, client, logger)
	result, err := engine.Run(context.Background(), ds, enabled)
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}

	printResult(result)
}

func loadCSV(path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty CSV")
	}

	columns := records[0]
	rows := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := model.Row{}
		for i, col := range columns {
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return model.NewDataset(columns, rows)
}

func printResult(result *core.Result) {
	fmt.Printf("\n%d issues", len(result.Issues))
	if result.Partial {
		fmt.Printf(" (partial run, degraded agents: %s)", strings.Join(result.FailedAgents, ", "))
	}
	fmt.Println()

	for _, issue := range result.Issues {
		marker := " "
		if issue.SupersededBy != "" {
			marker = "~"
		}
		proposed := "(no confident fix)"
		if issue.HasProposal {
			proposed = fmt.Sprintf("-> %q", issue.ProposedValue)
		}
		fmt.Printf("%s [%.2f] %-22s %s rows=%v %q %s\n",
			marker, issue.Confidence, issue.Type, issue.Column, issue.AffectedRows, issue.CurrentValue, proposed)
	}
}
