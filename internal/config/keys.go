package config

import (
	"fmt"
	"sort"
	"strconv"
)

// Recognized preference keys for the config command.
const (
	KeyADSMirror   = "ads_mirror"
	KeyADSToken    = "ads_token"
	KeySSHUser     = "proxy.ssh_user"
	KeySSHServer   = "proxy.ssh_server"
	KeySSHPort     = "proxy.ssh_port"
	KeyDownloadPDF = "options.download_pdf"
	KeyPDFReader   = "options.pdf_reader"
	KeyDebug       = "options.debug"
)

// Keys returns all recognized preference keys, sorted.
func Keys() []string {
	keys := []string{
		KeyADSMirror, KeyADSToken,
		KeySSHUser, KeySSHServer, KeySSHPort,
		KeyDownloadPDF, KeyPDFReader, KeyDebug,
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of one preference value.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case KeyADSMirror:
		return c.ADSMirror, nil
	case KeyADSToken:
		return c.ADSToken, nil
	case KeySSHUser:
		return c.Proxy.SSHUser, nil
	case KeySSHServer:
		return c.Proxy.SSHServer, nil
	case KeySSHPort:
		return strconv.Itoa(c.Proxy.SSHPort), nil
	case KeyDownloadPDF:
		return strconv.FormatBool(c.Options.DownloadPDF), nil
	case KeyPDFReader:
		return c.Options.PDFReader, nil
	case KeyDebug:
		return strconv.FormatBool(c.Options.Debug), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// Set parses and assigns one preference value.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyADSMirror:
		c.ADSMirror = value
	case KeyADSToken:
		c.ADSToken = value
	case KeySSHUser:
		c.Proxy.SSHUser = value
	case KeySSHServer:
		c.Proxy.SSHServer = value
	case KeySSHPort:
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 {
			return fmt.Errorf("invalid %s: %s", key, value)
		}
		c.Proxy.SSHPort = port
	case KeyDownloadPDF:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", key, value)
		}
		c.Options.DownloadPDF = b
	case KeyPDFReader:
		c.Options.PDFReader = value
	case KeyDebug:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s", key, value)
		}
		c.Options.Debug = b
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
