package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tide "github.com/iluetkeb/libtidelog"
)

// channelSpec is the on-disk config shape for one write_channel call (spec
// §6.3). SourceSpec and FmtSpec are opaque byte slices in the wire format,
// so the config carries them base64-encoded the way InputField.Value
// carries byte-typed fields in the teacher's JSON record format
// (go/conformance/test-streamed-write-conformance/main.go's parseBytes).
type channelSpec struct {
	Name       string `mapstructure:"name"`
	Type       string `mapstructure:"type"`
	SourceDesc string `mapstructure:"source_desc"`
	SourceSpec string `mapstructure:"source_spec"`
	FmtSpec    string `mapstructure:"fmt_spec"`
	DataSize   uint32 `mapstructure:"data_size"`
}

// entrySpec is one write_entry call, addressing its channel by the name
// declared earlier in the same config rather than by numeric id, since
// ids are only assigned once the channel list has been walked in order
// (I1).
type entrySpec struct {
	Channel    string `mapstructure:"channel"`
	Sec        uint64 `mapstructure:"sec"`
	Usec       uint64 `mapstructure:"usec"`
	Payload    string `mapstructure:"payload"`
	StartChunk bool   `mapstructure:"start_chunk"`
}

type logSpec struct {
	Channels []channelSpec `mapstructure:"channels"`
	Entries  []entrySpec   `mapstructure:"entries"`
}

var writeInputFile string
var writeOutputFile string

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a TIDE log file from a channel/entry config file",
	RunE: func(*cobra.Command, []string) error {
		return runWrite(writeInputFile, writeOutputFile)
	},
}

func init() {
	writeCmd.Flags().StringVarP(&writeInputFile, "input", "i", "", "Config file describing channels and entries (required)")
	writeCmd.Flags().StringVarP(&writeOutputFile, "output", "o", "", "Path to the TIDE log file to write (required)")
	_ = writeCmd.MarkFlagRequired("input")
	_ = writeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(writeCmd)
}

func runWrite(inputPath, outputPath string) error {
	v := viper.New()
	v.SetConfigFile(inputPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	var spec logSpec
	if err := v.Unmarshal(&spec); err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	w, err := tide.Open(outputPath, nil)
	if err != nil {
		return fmt.Errorf("opening %s: %w", outputPath, err)
	}

	byName := make(map[string]*tide.Channel, len(spec.Channels))
	for _, cs := range spec.Channels {
		sourceSpec, err := base64.StdEncoding.DecodeString(cs.SourceSpec)
		if err != nil {
			return fmt.Errorf("channel %q: decoding source_spec: %w", cs.Name, err)
		}
		fmtSpec, err := base64.StdEncoding.DecodeString(cs.FmtSpec)
		if err != nil {
			return fmt.Errorf("channel %q: decoding fmt_spec: %w", cs.Name, err)
		}
		ch, err := w.WriteChannel(cs.Name, cs.Type, cs.SourceDesc, sourceSpec, fmtSpec, cs.DataSize)
		if err != nil {
			return fmt.Errorf("declaring channel %q: %w", cs.Name, err)
		}
		byName[cs.Name] = ch
	}

	for i, es := range spec.Entries {
		if es.StartChunk {
			if err := w.StartChunk(); err != nil {
				return fmt.Errorf("entry %d: starting chunk: %w", i, err)
			}
		}
		ch, ok := byName[es.Channel]
		if !ok {
			return fmt.Errorf("entry %d: undeclared channel %q", i, es.Channel)
		}
		payload, err := base64.StdEncoding.DecodeString(es.Payload)
		if err != nil {
			return fmt.Errorf("entry %d: decoding payload: %w", i, err)
		}
		if err := w.WriteEntry(ch, es.Sec, es.Usec, payload); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return w.Close()
}
