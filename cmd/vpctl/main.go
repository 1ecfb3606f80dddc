// Package main implements the vpctl CLI for manual operations against
// the voicepipe HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the voicepipe HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vpctl",
	Short: "CLI for voicepipe HTTP server operations",
	Long: `vpctl is a command-line interface for interacting with the voicepipe HTTP server.
It provides commands for interpreting transcripts, extracting time entries,
classifying documents, and checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9090", "voicepipe server URL")
	rootCmd.AddCommand(interpretCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(classifyDocCmd)
	rootCmd.AddCommand(healthCmd)
}

// interpretCmd runs the full voice pipeline on a transcript
var interpretCmd = &cobra.Command{
	Use:   "interpret [transcript]",
	Short: "Interpret a transcript as a command or time entry",
	Long: `Interpret a transcript using the voicepipe server. The transcript is
classified as an app command first; dictated billing content falls
through to time-entry extraction.

Examples:
  # Interpret a transcript
  vpctl interpret "spent two hours drafting heads of argument for Smith"

  # Read the transcript from stdin
  echo "open the dashboard" | vpctl interpret -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInterpret,
}

// extractCmd extracts a time entry from a transcript
var extractCmd = &cobra.Command{
	Use:   "extract [transcript]",
	Short: "Extract a time entry from a transcript",
	Long: `Extract a structured time-entry draft from a transcript, skipping
command classification.

Examples:
  vpctl extract "2 hours reviewing the discovery bundle yesterday"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

// navigateCmd classifies a transcript as an app command
var navigateCmd = &cobra.Command{
	Use:   "navigate [transcript]",
	Short: "Classify a transcript as an app command",
	Long: `Classify a transcript as a navigation, search, or quick-action command.

Examples:
  vpctl navigate "go to invoices"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNavigate,
}

// classifyDocCmd classifies a document for tiered processing
var classifyDocCmd = &cobra.Command{
	Use:   "classify-doc <filename>",
	Short: "Classify a document and pick its processing tier",
	Long: `Classify a document by filename and optional first-page text read
from stdin.

Examples:
  # Filename only
  vpctl classify-doc invoice-2024-001.pdf

  # With first-page text
  pdftotext -f 1 -l 1 contract.pdf - | vpctl classify-doc contract.pdf --pages 12`,
	Args: cobra.ExactArgs(1),
	RunE: runClassifyDoc,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check voicepipe server health",
	Long: `Check the health status of the voicepipe HTTP server.

Examples:
  vpctl health
  vpctl health --server http://localhost:8080`,
	RunE: runHealth,
}

var (
	docPages     int
	docHasTables bool
	docHasForms  bool
)

func init() {
	classifyDocCmd.Flags().IntVar(&docPages, "pages", 1, "document page count")
	classifyDocCmd.Flags().BoolVar(&docHasTables, "tables", false, "document contains tables")
	classifyDocCmd.Flags().BoolVar(&docHasForms, "forms", false, "document contains form fields")
}

// transcriptRequest matches the transcript-bearing request bodies in
// internal/http/types.go.
type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

// documentRequest matches ClassifyDocumentRequest in internal/http/types.go.
type documentRequest struct {
	Document struct {
		Filename      string `json:"filename"`
		FirstPageText string `json:"first_page_text,omitempty"`
		PageCount     int    `json:"page_count"`
		HasTables     bool   `json:"has_tables"`
		HasForms      bool   `json:"has_forms"`
	} `json:"document"`
}

// healthResponse matches HealthResponse in internal/http/types.go.
type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	LLMOnline bool   `json:"llm_online"`
}

func runInterpret(cmd *cobra.Command, args []string) error {
	transcript, err := readTranscript(args)
	if err != nil {
		return err
	}
	return postJSON("/api/v1/interpret", transcriptRequest{Transcript: transcript})
}

func runExtract(cmd *cobra.Command, args []string) error {
	transcript, err := readTranscript(args)
	if err != nil {
		return err
	}
	return postJSON("/api/v1/extract", transcriptRequest{Transcript: transcript})
}

func runNavigate(cmd *cobra.Command, args []string) error {
	transcript, err := readTranscript(args)
	if err != nil {
		return err
	}
	return postJSON("/api/v1/navigate", transcriptRequest{Transcript: transcript})
}

func runClassifyDoc(cmd *cobra.Command, args []string) error {
	var req documentRequest
	req.Document.Filename = args[0]
	req.Document.PageCount = docPages
	req.Document.HasTables = docHasTables
	req.Document.HasForms = docHasForms

	// First-page text is optional and comes from stdin when piped.
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		req.Document.FirstPageText = string(text)
	}

	return postJSON("/api/v1/documents/classify", req)
}

func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", health.Status)
	fmt.Printf("Server URL: %s\n", serverURL)
	fmt.Printf("Version: %s\n", health.Version)
	fmt.Printf("LLM Online: %v\n", health.LLMOnline)

	return nil
}

// readTranscript gets the transcript from the argument or stdin.
func readTranscript(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		transcript := strings.TrimSpace(string(content))
		if transcript == "" {
			return "", fmt.Errorf("no transcript provided")
		}
		return transcript, nil
	}
	return args[0], nil
}

// postJSON sends the request body and pretty-prints the JSON response.
func postJSON(path string, body any) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := serverURL + path
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return nil
	}
	fmt.Println(pretty.String())

	return nil
}
