package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/touchbridge/touchbridge/commands"
	"github.com/touchbridge/touchbridge/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

// Server timeouts
const (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second
)

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func StartServer(addr string, enableCORS bool) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", handleJSONRPC)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, enableCORS)
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		handleGestureStream(w, r, enableCORS)
	})

	// if host is missing, default to localhost
	if !strings.Contains(addr, ":") {
		// convert addr to integer
		port, err := strconv.Atoi(addr)
		if err != nil {
			return fmt.Errorf("invalid port: %v", err)
		}

		addr = fmt.Sprintf(":%d", port)
	}

	if host, portStr, err := net.SplitHostPort(addr); err == nil {
		if port, err := strconv.Atoi(portStr); err == nil && port != 0 {
			if !utils.IsPortAvailable(host, port) {
				return fmt.Errorf("address %s is already in use", addr)
			}
		}
	}

	var handler http.Handler = mux
	if enableCORS {
		handler = corsMiddleware(mux)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	utils.Info("Starting server on http://%s...", server.Addr)
	return server.ListenAndServe()
}

func handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, "Parse error", "expecting jsonrpc payload")
		return
	}

	if req.JSONRPC != "2.0" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'jsonrpc' must be '2.0'")
		return
	}

	if req.ID == nil {
		sendJSONRPCError(w, nil, ErrCodeInvalidRequest, "Invalid Request", "'id' field is required")
		return
	}

	if req.Method == "" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, "Invalid Request", "'method' is required")
		return
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	handler, exists := GetMethodRegistry()[req.Method]
	if !exists {
		sendJSONRPCError(w, req.ID, ErrCodeMethodNotFound, "Method not found", fmt.Sprintf("Method '%s' not found", req.Method))
		return
	}

	result, err := handler(req.Params)
	if err != nil {
		log.Printf("Error executing method %s: %v", req.Method, err)
		sendJSONRPCError(w, req.ID, ErrCodeServerError, "Server error", err.Error())
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

// handleServerShutdown stops the bridge and exits the process. The response
// is written before the exit fires.
func handleServerShutdown(params json.RawMessage) (interface{}, error) {
	utils.Info("Shutdown requested")

	go func() {
		time.Sleep(100 * time.Millisecond)
		if b := commands.GetBridge(); b != nil {
			_ = b.Stop()
		}
		os.Exit(0)
	}()

	return okResponse, nil
}

func handleStatus(params json.RawMessage) (interface{}, error) {
	response := commands.StatusCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleConfig(params json.RawMessage) (interface{}, error) {
	response := commands.ConfigCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleDevicesList(params json.RawMessage) (interface{}, error) {
	response := commands.DevicesCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

type ActuatorMoveParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ActuatorClickParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ActuatorScrollParams struct {
	Direction string `json:"direction"`
	Amount    int    `json:"amount,omitempty"`
}

type ActuatorCalibrateParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ActuatorScreenParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// requireCoordinateParams rejects payloads that omit x or y, since a missing
// field would otherwise decode to a silent (0,0).
func requireCoordinateParams(params json.RawMessage) error {
	var rawParams map[string]interface{}
	if err := json.Unmarshal(params, &rawParams); err != nil {
		return fmt.Errorf("invalid parameters format")
	}

	for _, field := range []string{"x", "y"} {
		if _, exists := rawParams[field]; !exists {
			return fmt.Errorf("'%s' is required", field)
		}
	}
	return nil
}

func handleActuatorMove(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: x, y")
	}

	var moveParams ActuatorMoveParams
	if err := json.Unmarshal(params, &moveParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: x, y", err)
	}
	if err := requireCoordinateParams(params); err != nil {
		return nil, err
	}

	response := commands.MoveCommand(commands.MoveRequest{X: moveParams.X, Y: moveParams.Y})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleActuatorClick(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: x, y")
	}

	var clickParams ActuatorClickParams
	if err := json.Unmarshal(params, &clickParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: x, y", err)
	}
	if err := requireCoordinateParams(params); err != nil {
		return nil, err
	}

	response := commands.ClickCommand(commands.ClickRequest{X: clickParams.X, Y: clickParams.Y})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleActuatorScroll(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: direction, amount")
	}

	var scrollParams ActuatorScrollParams
	if err := json.Unmarshal(params, &scrollParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: direction, amount", err)
	}

	response := commands.ScrollCommand(commands.ScrollRequest{
		Direction: scrollParams.Direction,
		Amount:    scrollParams.Amount,
	})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleActuatorHome(params json.RawMessage) (interface{}, error) {
	response := commands.HomeCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return okResponse, nil
}

func handleActuatorCalibrate(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: x, y")
	}

	var calibrateParams ActuatorCalibrateParams
	if err := json.Unmarshal(params, &calibrateParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: x, y", err)
	}
	if err := requireCoordinateParams(params); err != nil {
		return nil, err
	}

	response := commands.CalibrateCommand(commands.CalibrateRequest{X: calibrateParams.X, Y: calibrateParams.Y})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func handleActuatorStatus(params json.RawMessage) (interface{}, error) {
	response := commands.ActuatorStatusCommand()
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleActuatorScreen(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: width, height")
	}

	var screenParams ActuatorScreenParams
	if err := json.Unmarshal(params, &screenParams); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: width, height", err)
	}

	response := commands.ScreenCommand(commands.ScreenRequest{
		Width:  screenParams.Width,
		Height: screenParams.Height,
	})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	return okResponse, nil
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}
