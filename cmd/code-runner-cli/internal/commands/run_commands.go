package commands

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	v1 "code_runner_service/internal/api/rest/v1"
	"code_runner_service/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// RunCommandHandler encapsulates logic for talking to the run endpoints of the REST API.
type RunCommandHandler struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewRunCommandHandler initializes and returns a RunCommandHandler instance with
// configured logger and HTTP client.
func NewRunCommandHandler() (*RunCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &RunCommandHandler{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     loggerInstance,
	}, nil
}

func (commandHandler *RunCommandHandler) serverSettings(cmd *cobra.Command) (string, string, error) {
	serverURL, err := cmd.Flags().GetString("server-url")
	if err != nil {
		return "", "", fmt.Errorf("invalid server-url flag: %w", err)
	}

	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return "", "", fmt.Errorf("invalid api-key flag: %w", err)
	}
	if apiKey == "" {
		apiKey = os.Getenv("CRS_API_KEY")
	}

	return serverURL + v1.BasePath, apiKey, nil
}

func (commandHandler *RunCommandHandler) doRequest(method, url, apiKey string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}

	resp, err := commandHandler.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// SubmitRunCmd uploads a source file or zip bundle for execution
func (commandHandler *RunCommandHandler) SubmitRunCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input-file")
	if err != nil {
		commandHandler.logger.Error("invalid input-file flag ", err)
		return
	}
	entry, err := cmd.Flags().GetString("entry")
	if err != nil {
		commandHandler.logger.Error("invalid entry flag ", err)
		return
	}
	baseURL, apiKey, err := commandHandler.serverSettings(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	fileContent, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	var formBody bytes.Buffer
	formWriter := multipart.NewWriter(&formBody)

	fileWriter, err := formWriter.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if _, err := fileWriter.Write(fileContent); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if entry != "" {
		if err := formWriter.WriteField("entry", entry); err != nil {
			commandHandler.logger.Error(err)
			return
		}
	}
	if err := formWriter.Close(); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	resp, err := commandHandler.doRequest(http.MethodPost, baseURL+"/runs", apiKey, &formBody, formWriter.FormDataContentType())
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusCreated {
		commandHandler.logger.Error("run submission failed with status ", resp.StatusCode, ": ", string(responseBody))
		return
	}

	commandHandler.logger.Info("Run submitted: ", string(responseBody))
}

// GetRunMetadataCmd fetches metadata for a single run
func (commandHandler *RunCommandHandler) GetRunMetadataCmd(cmd *cobra.Command, _ []string) {
	runID, err := cmd.Flags().GetString("run-id")
	if err != nil {
		commandHandler.logger.Error("invalid run-id flag ", err)
		return
	}
	baseURL, apiKey, err := commandHandler.serverSettings(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	resp, err := commandHandler.doRequest(http.MethodGet, baseURL+"/runs/"+runID, apiKey, nil, "")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		commandHandler.logger.Error("fetching run metadata failed with status ", resp.StatusCode, ": ", string(responseBody))
		return
	}

	commandHandler.logger.Info("Run metadata: ", string(responseBody))
}

// ListRunsCmd fetches metadata for multiple runs, optionally filtered by status
func (commandHandler *RunCommandHandler) ListRunsCmd(cmd *cobra.Command, _ []string) {
	status, err := cmd.Flags().GetString("status")
	if err != nil {
		commandHandler.logger.Error("invalid status flag ", err)
		return
	}
	baseURL, apiKey, err := commandHandler.serverSettings(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	url := baseURL + "/runs"
	if status != "" {
		url += "?status=" + status
	}

	resp, err := commandHandler.doRequest(http.MethodGet, url, apiKey, nil, "")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		commandHandler.logger.Error("listing runs failed with status ", resp.StatusCode, ": ", string(responseBody))
		return
	}

	commandHandler.logger.Info("Runs: ", string(responseBody))
}

// DownloadOutputCmd downloads a run's captured output and persists it in a selected file
func (commandHandler *RunCommandHandler) DownloadOutputCmd(cmd *cobra.Command, _ []string) {
	commandHandler.downloadArtifact(cmd, "/output", ".txt")
}

// DownloadBundleCmd downloads a run's zipped workspace and persists it in a selected file
func (commandHandler *RunCommandHandler) DownloadBundleCmd(cmd *cobra.Command, _ []string) {
	commandHandler.downloadArtifact(cmd, "/bundle", ".zip")
}

func (commandHandler *RunCommandHandler) downloadArtifact(cmd *cobra.Command, suffix, extension string) {
	runID, err := cmd.Flags().GetString("run-id")
	if err != nil {
		commandHandler.logger.Error("invalid run-id flag ", err)
		return
	}
	outputFilePath, err := cmd.Flags().GetString("output-file")
	if err != nil {
		commandHandler.logger.Error("invalid output-file flag ", err)
		return
	}
	if outputFilePath == "" {
		outputFilePath = runID + extension
	}
	baseURL, apiKey, err := commandHandler.serverSettings(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	resp, err := commandHandler.doRequest(http.MethodGet, baseURL+"/runs/"+runID+suffix, apiKey, nil, "")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		commandHandler.logger.Error("download failed with status ", resp.StatusCode, ": ", string(responseBody))
		return
	}

	if err := os.WriteFile(outputFilePath, responseBody, 0600); err != nil {
		commandHandler.logger.Error(err)
		return
	}
	commandHandler.logger.Info("Artifact saved to ", outputFilePath)
}

// DeleteRunCmd deletes a run and its stored artifacts
func (commandHandler *RunCommandHandler) DeleteRunCmd(cmd *cobra.Command, _ []string) {
	runID, err := cmd.Flags().GetString("run-id")
	if err != nil {
		commandHandler.logger.Error("invalid run-id flag ", err)
		return
	}
	baseURL, apiKey, err := commandHandler.serverSettings(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	resp, err := commandHandler.doRequest(http.MethodDelete, baseURL+"/runs/"+runID, apiKey, nil, "")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		responseBody, _ := io.ReadAll(resp.Body)
		commandHandler.logger.Error("deleting run failed with status ", resp.StatusCode, ": ", string(responseBody))
		return
	}

	commandHandler.logger.Info("Deleted run with id ", runID)
}

// addServerFlags registers the flags shared by every run command
func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("server-url", "", "http://localhost:8000", "Base URL of the code runner service")
	cmd.Flags().StringP("api-key", "", "", "API key for the service (falls back to CRS_API_KEY)")
}

// InitRunCommands registers run-related commands
func InitRunCommands(rootCmd *cobra.Command) error {
	handler, err := NewRunCommandHandler()

	if err != nil {
		return fmt.Errorf("failed to create run command handler %w", err)
	}

	var submitRunCmd = &cobra.Command{
		Use:   "submit-run",
		Short: "Submit a source file or zip bundle for execution",
		Run:   handler.SubmitRunCmd,
	}
	submitRunCmd.Flags().StringP("input-file", "", "", "Path to the Python file or zip bundle to execute")
	submitRunCmd.Flags().StringP("entry", "", "", "Entrypoint inside a zip bundle (defaults to main.py or app.py)")
	addServerFlags(submitRunCmd)
	rootCmd.AddCommand(submitRunCmd)

	var getRunMetadataCmd = &cobra.Command{
		Use:   "get-run-metadata",
		Short: "Fetch metadata for a run",
		Run:   handler.GetRunMetadataCmd,
	}
	getRunMetadataCmd.Flags().StringP("run-id", "", "", "ID of the run")
	addServerFlags(getRunMetadataCmd)
	rootCmd.AddCommand(getRunMetadataCmd)

	var listRunsCmd = &cobra.Command{
		Use:   "list-runs",
		Short: "List run metadata",
		Run:   handler.ListRunsCmd,
	}
	listRunsCmd.Flags().StringP("status", "", "", "Filter runs by status")
	addServerFlags(listRunsCmd)
	rootCmd.AddCommand(listRunsCmd)

	var downloadOutputCmd = &cobra.Command{
		Use:   "download-output",
		Short: "Download a run's captured output",
		Run:   handler.DownloadOutputCmd,
	}
	downloadOutputCmd.Flags().StringP("run-id", "", "", "ID of the run")
	downloadOutputCmd.Flags().StringP("output-file", "", "", "Path to save the output to (defaults to <run-id>.txt)")
	addServerFlags(downloadOutputCmd)
	rootCmd.AddCommand(downloadOutputCmd)

	var downloadBundleCmd = &cobra.Command{
		Use:   "download-bundle",
		Short: "Download a run's zipped workspace",
		Run:   handler.DownloadBundleCmd,
	}
	downloadBundleCmd.Flags().StringP("run-id", "", "", "ID of the run")
	downloadBundleCmd.Flags().StringP("output-file", "", "", "Path to save the bundle to (defaults to <run-id>.zip)")
	addServerFlags(downloadBundleCmd)
	rootCmd.AddCommand(downloadBundleCmd)

	var deleteRunCmd = &cobra.Command{
		Use:   "delete-run",
		Short: "Delete a run and its stored artifacts",
		Run:   handler.DeleteRunCmd,
	}
	deleteRunCmd.Flags().StringP("run-id", "", "", "ID of the run")
	addServerFlags(deleteRunCmd)
	rootCmd.AddCommand(deleteRunCmd)

	return nil
}
