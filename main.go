package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ledoxide/cargo-stager/artifact"
	"github.com/ledoxide/cargo-stager/cargo"
	"github.com/ledoxide/cargo-stager/stage"
	"go.yaml.in/yaml/v3"
)

// Config is a business object holding the stager's configuration.
type Config struct {
	// Staging configures the manifest/lockfile rewrite phase.
	Staging stage.Config
	// OutputDir is the compiler output directory scanned during resolution.
	OutputDir string
	// BinaryDest is the fixed path the promoted binary is copied to.
	BinaryDest string
	// ChecksumsPath, when set, is where the binary's SHA256SUMS file goes.
	ChecksumsPath string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: cargo-stager <command> [flags]")
		fmt.Println("Commands: stage, resolve")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "stage":
		runStage(os.Args[2:])
	case "resolve":
		runResolve(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// listener prints every staging event as one JSON line.
func listener(e fmt.Stringer) {
	fmt.Println(e.String())
}

func runStage(args []string) {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	confPath := fs.String("config", "", "Path to optional YAML config file")
	manifest := fs.String("manifest", cargo.ManifestFile, "Manifest to stage")
	lock := fs.String("lock", cargo.LockFile, "Lockfile to stage")
	outManifest := fs.String("out-manifest", cargo.StagedManifestFile, "Staged manifest output path")
	outLock := fs.String("out-lock", cargo.StagedLockFile, "Staged lockfile output path")
	pkg := fs.String("package", cargo.TargetPackage, "Package whose lockfile blocks are rewritten")
	placeholder := fs.String("placeholder", cargo.PlaceholderVersion, "Placeholder version")
	bundlePath := fs.String("bundle", "", "Optional stage bundle (ar archive) output path")
	fs.Parse(args)

	config := loadConfig(*confPath)

	// Flags set explicitly on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "manifest":
			config.Staging.ManifestPath = *manifest
		case "lock":
			config.Staging.LockfilePath = *lock
		case "out-manifest":
			config.Staging.StagedManifestPath = *outManifest
		case "out-lock":
			config.Staging.StagedLockfilePath = *outLock
		case "package":
			config.Staging.TargetPackage = *pkg
		case "placeholder":
			config.Staging.Placeholder = *placeholder
		}
	})

	if err := stage.Run(config.Staging, listener); err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}

	if *bundlePath != "" {
		if err := stage.WriteBundle(*bundlePath, config.Staging, listener); err != nil {
			fmt.Printf("Fatal: %v\n", err)
			os.Exit(1)
		}
	}
}

func runResolve(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	confPath := fs.String("config", "", "Path to optional YAML config file")
	srcDir := fs.String("src", ".", "Package directory queried for build metadata")
	targetDir := fs.String("target-dir", "", "Compiler output directory")
	dest := fs.String("dest", "", "Destination path for the promoted binary")
	sums := fs.String("sums", "", "Optional SHA256SUMS output path")
	fs.Parse(args)

	config := loadConfig(*confPath)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-dir":
			config.OutputDir = *targetDir
		case "dest":
			config.BinaryDest = *dest
		case "sums":
			config.ChecksumsPath = *sums
		}
	})

	resolver := &artifact.Resolver{
		Metadata:  &cargo.ExecSource{Dir: *srcDir},
		OutputDir: config.OutputDir,
		Dest:      config.BinaryDest,
	}
	src, err := resolver.Resolve()
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
	dst := config.BinaryDest
	if dst == "" {
		dst = cargo.DefaultBinaryDest
	}
	fmt.Printf("Promoted %s to %s\n", src, dst)

	if config.ChecksumsPath != "" {
		if err := artifact.WriteChecksums(dst, config.ChecksumsPath); err != nil {
			fmt.Printf("Fatal: %v\n", err)
			os.Exit(1)
		}
		if key := os.Getenv("GPG_PRIVATE_KEY"); key != "" {
			if err := artifact.SignChecksums(config.ChecksumsPath, key); err != nil {
				fmt.Printf("Fatal: %v\n", err)
				os.Exit(1)
			}
		}
	}
}

// loadConfig reads the optional YAML config file. An empty path yields the
// built-in defaults; a present but unreadable file is fatal.
func loadConfig(path string) *Config {
	if path == "" {
		return &Config{}
	}
	config, err := decodeConfig(path)
	if err != nil {
		fmt.Printf("Fatal: Could not read or parse config file %s: %v\n", path, err)
		os.Exit(1)
	}
	return config
}

func decodeConfig(path string) (*Config, error) {
	// Internal DTOs for YAML deserialization
	type yamlStaging struct {
		Manifest       string `yaml:"manifest"`
		Lock           string `yaml:"lock"`
		Package        string `yaml:"package"`
		Placeholder    string `yaml:"placeholder"`
		StagedManifest string `yaml:"staged_manifest"`
		StagedLock     string `yaml:"staged_lock"`
	}
	type yamlResolve struct {
		TargetDir string `yaml:"target_dir"`
		Dest      string `yaml:"dest"`
		Checksums string `yaml:"checksums"`
	}
	type yamlConfig struct {
		Staging yamlStaging `yaml:"staging"`
		Resolve yamlResolve `yaml:"resolve"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var dto yamlConfig
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	// Map DTO to business object
	config := &Config{
		Staging: stage.Config{
			ManifestPath:       dto.Staging.Manifest,
			LockfilePath:       dto.Staging.Lock,
			TargetPackage:      dto.Staging.Package,
			Placeholder:        dto.Staging.Placeholder,
			StagedManifestPath: dto.Staging.StagedManifest,
			StagedLockfilePath: dto.Staging.StagedLock,
		},
		OutputDir:     dto.Resolve.TargetDir,
		BinaryDest:    dto.Resolve.Dest,
		ChecksumsPath: dto.Resolve.Checksums,
	}
	return config, nil
}
