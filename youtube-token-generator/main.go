package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

const default_token_file = "client_token.json"

// saveToken writes the token next to the client secret, readable only by
// the owner.
func saveToken(clientSecretFilePath string, token *oauth2.Token) (string, error) {
	tokenFilePath := filepath.Join(filepath.Dir(clientSecretFilePath), default_token_file)
	file, err := os.OpenFile(tokenFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return tokenFilePath, json.NewEncoder(file).Encode(token)
}

func main() {

	// Check arguments
	if len(os.Args) != 2 {
		fmt.Println("youtube-token-generator [client secret file path]")
		os.Exit(0)
	}
	clientSecretFilePath := os.Args[1]

	// Load client config with the upload scope the publisher needs
	byteData, err := os.ReadFile(clientSecretFilePath)
	if err != nil {
		log.Fatal(err)
	}
	config, err := google.ConfigFromJSON(byteData, youtube.YoutubeUploadScope)
	if err != nil {
		log.Fatal(err)
	}

	// Ask user to access link from browser to get auth code
	authURL := config.AuthCodeURL("globecast", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("Open this URL, authorize the channel and paste the code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Fatal(err)
	}

	token, err := config.Exchange(context.Background(), code)
	if err != nil {
		log.Fatal(err)
	}
	if token.RefreshToken == "" {
		log.Println("[WARN] no refresh token returned, uploads stop working once the access token expires")
	}

	tokenFilePath, err := saveToken(clientSecretFilePath, token)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved credential file to: %s\n", tokenFilePath)
}
