package main

import (
	"testing"

	"github.com/nanotick/covsort/partition"
)

func TestBuildConfigCoverage(t *testing.T) {
	cfg, err := buildConfig("in.fastq.gz", "out", "5m", "1,2,5,10", "", "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != partition.Coverage {
		t.Errorf("mode = %s", cfg.Mode)
	}
	if cfg.GenomeSize != 5000000 || cfg.GenomeSizeRaw != "5m" {
		t.Errorf("genome size = %d (%q)", cfg.GenomeSize, cfg.GenomeSizeRaw)
	}
	if len(cfg.Thresholds) != 4 || cfg.Thresholds[3] != 10 {
		t.Errorf("thresholds = %v", cfg.Thresholds)
	}
}

func TestBuildConfigSizes(t *testing.T) {
	cfg, err := buildConfig("in.fastq.gz", "out", "", "", "", "10M,20M")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != partition.Size {
		t.Errorf("mode = %s", cfg.Mode)
	}
	want := []int64{10000000, 20000000}
	for i, v := range want {
		if cfg.Thresholds[i] != v {
			t.Errorf("thresholds = %v, want %v", cfg.Thresholds, want)
			break
		}
	}
}

func TestBuildConfigUsageErrors(t *testing.T) {
	cases := []struct {
		name                                        string
		input, out, genome, coverages, times, sizes string
	}{
		{"missing input", "", "out", "5m", "1,2", "", ""},
		{"missing out", "in", "", "5m", "1,2", "", ""},
		{"no threshold list", "in", "out", "5m", "", "", ""},
		{"two threshold lists", "in", "out", "5m", "1,2", "10,20", ""},
		{"coverage without genome", "in", "out", "", "1,2", "", ""},
		{"malformed genome", "in", "out", "5x", "1,2", "", ""},
		{"malformed coverage value", "in", "out", "5m", "1,two", "", ""},
		{"malformed size value", "in", "out", "", "", "", "10M,zz"},
		{"descending thresholds", "in", "out", "5m", "10,5", "", ""},
		{"duplicate thresholds", "in", "out", "", "", "10,10,20", ""},
	}

	for _, c := range cases {
		if _, err := buildConfig(c.input, c.out, c.genome, c.coverages, c.times, c.sizes); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}
