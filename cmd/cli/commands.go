package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	playerName     string
	playerEmail    string
	playerLocation int64
	locationName   string
	eventType      string
	pointsTeam1    int
	pointsTeam2    int
)

func init() {
	addPlayerCmd.Flags().StringVar(&playerName, "name", "", "Player name")
	addPlayerCmd.Flags().StringVar(&playerEmail, "email", "", "Player email")
	addPlayerCmd.Flags().Int64Var(&playerLocation, "location", 0, "Home location id (optional)")
	addPlayerCmd.MarkFlagRequired("name")
	addPlayerCmd.MarkFlagRequired("email")

	addLocationCmd.Flags().StringVar(&locationName, "name", "", "Location name")
	addLocationCmd.MarkFlagRequired("name")

	recordCmd.Flags().StringVar(&eventType, "type", "point", "Event type label")
	recordCmd.Flags().IntVar(&pointsTeam1, "t1", 0, "Points awarded to team 1")
	recordCmd.Flags().IntVar(&pointsTeam2, "t2", 0, "Points awarded to team 2")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(addLocationCmd)
	rootCmd.AddCommand(createGameCmd)
	rootCmd.AddCommand(gameCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List all players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player",
	Short: "Create a new player",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"name": playerName, "email": playerEmail}
		if playerLocation > 0 {
			body["locationId"] = playerLocation
		}
		return performPostRequest("/players", body)
	},
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List all locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/locations")
	},
}

var addLocationCmd = &cobra.Command{
	Use:   "add-location",
	Short: "Create a new location",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/locations", map[string]any{"name": locationName})
	},
}

var createGameCmd = &cobra.Command{
	Use:   "create-game <t1p1> <t1p2> <t2p1> <t2p2>",
	Short: "Create a game from four player ids",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 4)
		for i, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid player id %q: %w", arg, err)
			}
			ids[i] = id
		}
		return performPostRequest("/games", map[string]any{
			"team1Player1": ids[0],
			"team1Player2": ids[1],
			"team2Player1": ids[2],
			"team2Player2": ids[3],
		})
	},
}

var gameCmd = &cobra.Command{
	Use:   "game <id>",
	Short: "Show a game and its event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/games/" + args[0])
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <game-id>",
	Short: "Record a scoring event against a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/games/"+args[0]+"/events", map[string]any{
			"eventType":   eventType,
			"pointsTeam1": pointsTeam1,
			"pointsTeam2": pointsTeam2,
		})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
