// Package main implements the graph surface of the rhizome CLI: node and
// edge creation, filtered queries, listings, export, and stats.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rhizome/internal/store"
)

var (
	nodeMetadata   []string
	edgeMetadata   []string
	edgeConfidence float64

	querySource       string
	queryRelationship string
	queryTarget       string

	exportOutput string
)

// nodeCmd manages graph nodes
var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Create and inspect graph nodes",
}

var nodeCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create a node (no-op if it already exists)",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeCreate,
}

var nodeExistsCmd = &cobra.Command{
	Use:   "exists <id>",
	Short: "Check whether a node exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runNodeExists,
}

// edgeCmd creates or updates edges
var edgeCmd = &cobra.Command{
	Use:   "edge <source> <relationship> <target>",
	Short: "Create or update a confidence-weighted edge",
	Long: `Creates the edge if the (source, relationship, target) triple is new,
otherwise overwrites its confidence and metadata. Endpoint nodes that do
not exist yet are created automatically.`,
	Args: cobra.ExactArgs(3),
	RunE: runEdgeCreate,
}

// queryCmd filters edges
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query edges by source, relationship, and/or target",
	RunE:  runQuery,
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List node ids, newest first",
	RunE:  runNodes,
}

var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "List all edges, most recently updated first",
	RunE:  runEdges,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full graph as JSON",
	RunE:  runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show graph statistics",
	RunE:  runStats,
}

func init() {
	nodeCmd.AddCommand(nodeCreateCmd)
	nodeCmd.AddCommand(nodeExistsCmd)

	nodeCreateCmd.Flags().StringArrayVarP(&nodeMetadata, "meta", "m", nil, "Metadata key=value (repeatable)")
	edgeCmd.Flags().StringArrayVarP(&edgeMetadata, "meta", "m", nil, "Metadata key=value (repeatable)")
	edgeCmd.Flags().Float64VarP(&edgeConfidence, "confidence", "c", 0.5, "Edge confidence in [0,1]")

	queryCmd.Flags().StringVarP(&querySource, "source", "s", "", "Filter by source node")
	queryCmd.Flags().StringVarP(&queryRelationship, "relationship", "r", "", "Filter by relationship")
	queryCmd.Flags().StringVarP(&queryTarget, "target", "t", "", "Filter by target node")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

// parseMetadata turns repeated key=value flags into an edge metadata map.
func parseMetadata(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata %q, want key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

func runNodeCreate(cmd *cobra.Command, args []string) error {
	meta, err := parseMetadata(nodeMetadata)
	if err != nil {
		return err
	}

	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	id, err := gs.CreateNode(args[0], meta)
	if err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}

	logger.Debug("node created", zap.String("id", id))
	fmt.Printf("✓ Node: %s\n", id)
	return nil
}

func runNodeExists(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	exists, err := gs.NodeExists(args[0])
	if err != nil {
		return fmt.Errorf("failed to check node: %w", err)
	}

	if exists {
		fmt.Printf("✓ %s exists\n", args[0])
	} else {
		fmt.Printf("✗ %s does not exist\n", args[0])
	}
	return nil
}

func runEdgeCreate(cmd *cobra.Command, args []string) error {
	meta, err := parseMetadata(edgeMetadata)
	if err != nil {
		return err
	}

	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	id, err := gs.CreateOrUpdateEdge(args[0], args[1], args[2], edgeConfidence, meta)
	if err != nil {
		return fmt.Errorf("failed to write edge: %w", err)
	}

	if id == 0 {
		fmt.Printf("✓ Updated: %s --%s--> %s (%.2f)\n", args[0], args[1], args[2], edgeConfidence)
	} else {
		fmt.Printf("✓ Created: %s --%s--> %s (%.2f) [edge %d]\n", args[0], args[1], args[2], edgeConfidence, id)
	}
	return nil
}

func printEdges(edges []store.Edge) {
	if len(edges) == 0 {
		fmt.Println("No edges found.")
		return
	}

	fmt.Println(strings.Repeat("─", 60))
	for _, e := range edges {
		fmt.Printf("%4d. %s --%s--> %s  (%.2f)\n", e.ID, e.Source, e.Relationship, e.Target, e.Confidence)
		if len(e.Metadata) > 0 {
			if data, err := json.Marshal(e.Metadata); err == nil {
				fmt.Printf("      %s\n", data)
			}
		}
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("%d edge(s)\n", len(edges))
}

func runQuery(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	edges, err := gs.QueryEdges(store.EdgeFilter{
		Source:       querySource,
		Relationship: queryRelationship,
		Target:       queryTarget,
	})
	if err != nil {
		return fmt.Errorf("failed to query edges: %w", err)
	}

	printEdges(edges)
	return nil
}

func runNodes(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	ids, err := gs.ListNodeIDs()
	if err != nil {
		return fmt.Errorf("failed to list nodes: %w", err)
	}

	if len(ids) == 0 {
		fmt.Println("No nodes yet.")
		return nil
	}

	fmt.Println(strings.Repeat("─", 60))
	for i, id := range ids {
		fmt.Printf("%4d. %s\n", i+1, id)
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("%d node(s)\n", len(ids))
	return nil
}

func runEdges(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	edges, err := gs.ListEdges()
	if err != nil {
		return fmt.Errorf("failed to list edges: %w", err)
	}

	printEdges(edges)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	snapshot, err := gs.ExportSnapshot()
	if err != nil {
		return fmt.Errorf("failed to export graph: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if exportOutput != "" {
		if err := os.WriteFile(exportOutput, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Printf("✓ Exported %d node(s), %d edge(s) to %s\n", len(snapshot.Nodes), len(snapshot.Edges), exportOutput)
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	gs, err := openStore()
	if err != nil {
		return err
	}
	defer gs.Close()

	stats, err := gs.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Println("📊 Graph")
	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("  Nodes:          %d\n", stats.NodeCount)
	fmt.Printf("  Edges:          %d\n", stats.EdgeCount)
	fmt.Printf("  Avg confidence: %.2f\n", stats.AverageConfidence)
	fmt.Println(strings.Repeat("─", 60))
	return nil
}
