package utils

import (
	"fmt"
	"os"
)

const ZerobinDir = ".zerobin"

// GetZerobinHomeDirectory returns the default data directory under the
// user's home, creating it when missing.
func GetZerobinHomeDirectory() (string, error) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("os.UserHomeDir(). %w", err)
	}

	zerobinDir := homedir + "/" + ZerobinDir
	err = MakeSureDirExists(zerobinDir)
	if err != nil {
		return "", fmt.Errorf("MakeSureDirExists(zerobinDir). %w", err)
	}

	return zerobinDir, nil
}

func MakeSureDirExists(dirPath string) error {
	_, err := os.Stat(dirPath)

	if os.IsNotExist(err) {
		err = os.MkdirAll(dirPath, 0764)
		if err != nil {
			return fmt.Errorf("os.MkdirAll(dirPath, 0764) %w", err)
		}
	}

	return nil
}
