package main

import (
	"errors"
	"log"
	"os"

	"github.com/keymaestro/keyexport/cmd/flags"
	"github.com/keymaestro/keyexport/export"
	"github.com/keymaestro/keyexport/keystore"
	"github.com/urfave/cli/v2"
)

var flagKeystore = &cli.StringFlag{
	Name:     "keystore",
	Required: true,
	Usage:    "Path to the PEM keystore holding the key to export (file, or directory used with --alias)",
}
var flagAlias = &cli.StringFlag{
	Name:  "alias",
	Usage: "Alias of the key to export when --keystore is a directory",
}
var flagEncryptionKey = &cli.StringFlag{
	Name:     "encryptionkey",
	Required: true,
	Usage:    "Hex-encoded 68-byte encryption public key (4-byte key identity followed by a 64-byte P-256 point)",
}
var flagOutput = &cli.StringFlag{
	Name:     "output",
	Required: true,
	Usage:    "Path to write the encrypted private key (or zip archive when signing)",
}
var flagSigningKeystore = &cli.StringFlag{
	Name:  "signing-keystore",
	Usage: "Path to the PEM keystore holding the signing key",
}
var flagSigningKeyAlias = &cli.StringFlag{
	Name:  "signing-key-alias",
	Usage: "Alias of the signing key; requires --signing-keystore",
}
var flagIncludeCert = &cli.BoolFlag{
	Name:  "include-cert",
	Usage: "Include the exported key's certificate and produce a zip archive even without signing",
}

func main() {
	app := &cli.App{
		Name:  "keyexport",
		Usage: "encrypt a private key for secure transfer using hybrid public-key encryption",
		Flags: append([]cli.Flag{
			flagKeystore,
			flagAlias,
			flagEncryptionKey,
			flagOutput,
			flagSigningKeystore,
			flagSigningKeyAlias,
			flagIncludeCert,
		}, flags.CommonFlags...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)

	cfg := &export.Config{
		Log: logger,
		Key: keystore.Key{
			Path:  cCtx.String(flagKeystore.Name),
			Alias: cCtx.String(flagAlias.Name),
		},
		RecipientKeyHex:    cCtx.String(flagEncryptionKey.Name),
		OutputPath:         cCtx.String(flagOutput.Name),
		IncludeCertificate: cCtx.Bool(flagIncludeCert.Name),
	}

	signingKeystore := cCtx.String(flagSigningKeystore.Name)
	signingAlias := cCtx.String(flagSigningKeyAlias.Name)
	if signingAlias != "" && signingKeystore == "" {
		return errors.New("--signing-key-alias requires --signing-keystore")
	}
	if signingKeystore != "" {
		cfg.SigningKey = &keystore.Key{Path: signingKeystore, Alias: signingAlias}
	}

	return export.New(cfg).Run()
}
