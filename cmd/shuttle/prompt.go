package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// envKeystorePassword supplies the keystore password non-interactively.
const envKeystorePassword = "SHUTTLE_KEYSTORE_PASSWORD"

var stdinReader = bufio.NewReader(os.Stdin)

// promptYesNo asks a y/n question on stderr and reads the answer from
// stdin. Anything other than "y" or "yes" is no.
func promptYesNo(question string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readPassword reads the keystore password from the environment, or from
// stdin after printing the prompt.
func readPassword(prompt string) (string, error) {
	if pw := os.Getenv(envKeystorePassword); pw != "" {
		return pw, nil
	}
	return readLine(prompt)
}

// readLine prints a prompt on stderr and reads one trimmed line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
