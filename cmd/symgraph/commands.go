// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/symgraph/services/symbols/graph"
	"github.com/AleutianAI/symgraph/services/symbols/ids"
	"github.com/AleutianAI/symgraph/services/symbols/index"
	"github.com/AleutianAI/symgraph/services/symbols/manifest"
)

// ErrSymbolNotFound is returned when a named symbol is not in the graph.
var ErrSymbolNotFound = errors.New("symbol not found")

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build MANIFEST...",
		Short: "Apply manifests into one graph and print it",
		Long: `Apply every manifest, in order, to a single graph and print the graph.

Symbols declared by more than one manifest resolve to the same node.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.buildGraph(cmd.Context(), args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), g.String())
			return err
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var signature string

	cmd := &cobra.Command{
		Use:   "resolve MANIFEST NAME",
		Short: "Print the node for a full name",
		Long: `Build the graph from MANIFEST and print the node named NAME with its
components and incident edges.

Use --signature to pick one overload out of same-named siblings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.buildGraph(cmd.Context(), args[:1])
			if err != nil {
				return err
			}
			node, err := lookup(g, args[1], signature, cmd.Flags().Changed("signature"))
			if err != nil {
				return err
			}
			return printNode(cmd.OutOrStdout(), node)
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "signature that selects an overload")
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	var maxConcurrency int

	cmd := &cobra.Command{
		Use:   "merge MANIFEST...",
		Short: "Build one graph per manifest concurrently and merge them",
		Long: `Apply each manifest to its own graph, concurrently, then merge the
graphs in argument order. Node identity is by id, so a symbol declared in
two manifests appears twice in the result.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			passes := make([]index.Pass, 0, len(args))
			for _, path := range args {
				m, err := manifest.Load(ctx, path)
				if err != nil {
					return err
				}
				passes = append(passes, index.Pass{Name: path, Manifest: m})
			}

			limit := a.config.Index.MaxConcurrency
			if cmd.Flags().Changed("max-concurrency") {
				limit = maxConcurrency
			}

			seq := ids.NewSequence()
			ix := index.NewIndexer(
				index.WithAllocator(seq),
				index.WithLogger(a.logger.Slog()),
				index.WithMaxConcurrency(limit),
			)
			res, err := ix.Build(ctx, passes...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range res.Passes {
				fmt.Fprintf(out, "pass %s: %d symbols, %d edges applied; %d nodes, %d edges merged\n",
					p.Name, p.Applied.Symbols, p.Applied.Edges, p.Merged.NodesAdded, p.Merged.EdgesAdded)
			}
			fmt.Fprintf(out, "ids allocated: %d\n", seq.Last())
			_, err = fmt.Fprint(out, res.Graph.String())
			return err
		},
	}
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "passes applied at once (0 means default)")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var signature string

	cmd := &cobra.Command{
		Use:   "remove MANIFEST NAME",
		Short: "Remove a node and everything below it, then print the graph",
		Long: `Build the graph from MANIFEST, remove the node named NAME together with
its descendants and every incident edge, and print what remains.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.buildGraph(cmd.Context(), args[:1])
			if err != nil {
				return err
			}
			node, err := lookup(g, args[1], signature, cmd.Flags().Changed("signature"))
			if err != nil {
				return err
			}

			nodesBefore, edgesBefore := g.NodeCount(), g.EdgeCount()
			if err := g.RemoveNode(node); err != nil {
				a.logger.Error("remove failed", "name", args[1], "error", err)
				return err
			}
			a.logger.Info("removed symbol",
				"name", args[1],
				"nodes_removed", nodesBefore-g.NodeCount(),
				"edges_removed", edgesBefore-g.EdgeCount(),
			)

			_, err = fmt.Fprint(cmd.OutOrStdout(), g.String())
			return err
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "signature that selects an overload")
	return cmd
}

// buildGraph applies the manifests at paths, in order, to a new graph.
func (a *app) buildGraph(ctx context.Context, paths []string) (*graph.Graph, error) {
	g := graph.NewGraph(
		graph.WithLogger(a.logger.Slog()),
		graph.WithAllocator(ids.NewSequence()),
	)

	for _, path := range paths {
		m, err := manifest.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		stats, err := manifest.Apply(ctx, g, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		a.logger.Debug("applied manifest",
			"path", path,
			"symbols", stats.Symbols,
			"edges", stats.Edges,
		)
	}
	return g, nil
}

func lookup(g *graph.Graph, name, signature string, bySignature bool) (*graph.Node, error) {
	var node *graph.Node
	if bySignature {
		node = g.GetNodeWithSignature(name, signature)
	} else {
		node = g.GetNode(name)
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	return node, nil
}

func printNode(w io.Writer, n *graph.Node) error {
	fmt.Fprintf(w, "%s\n", n)
	fmt.Fprintf(w, "full name: %s\n", n.FullName())
	fmt.Fprintf(w, "components (%d)\n", n.ComponentCount())
	if sig, ok := n.Signature(); ok {
		fmt.Fprintf(w, "signature: %s\n", sig)
	}
	if c, ok := n.Component(graph.ComponentKindAccess); ok {
		fmt.Fprintf(w, "access: %s\n", c.(graph.AccessComponent).Access)
	}
	if c, ok := n.Component(graph.ComponentKindLocation); ok {
		loc := c.(graph.LocationComponent)
		fmt.Fprintf(w, "location: %s:%d-%d\n", loc.FilePath, loc.StartLine, loc.EndLine)
	}
	fmt.Fprintf(w, "edges (%d)\n", n.EdgeCount())
	var err error
	n.ForEachEdge(func(e *graph.Edge) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%s\n", e)
		}
	})
	return err
}
