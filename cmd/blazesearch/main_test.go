package main

import "testing"

func TestRootCmdWiresAllFourSubcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"preindex": false, "fstindex": false, "stats": false, "repl": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not wired into root command", name)
		}
	}
}

func TestParseErrorModelExactReturnsNilFactory(t *testing.T) {
	factory, err := parseErrorModel("exact")
	if err != nil || factory != nil {
		t.Fatalf("parseErrorModel(exact) = %v, %v, want nil, nil", factory, err)
	}
}

func TestParseErrorModelLevenshtein(t *testing.T) {
	factory, err := parseErrorModel("levenshtein-2")
	if err != nil || factory == nil {
		t.Fatalf("parseErrorModel(levenshtein-2) = %v, %v, want non-nil factory", factory, err)
	}
	aut, err := factory("cat")
	if err != nil || aut == nil {
		t.Fatalf("factory(cat) = %v, %v", aut, err)
	}
}

func TestParseErrorModelAcceptsFloatLevenshteinBound(t *testing.T) {
	factory, err := parseErrorModel("levenshtein-1.9")
	if err != nil || factory == nil {
		t.Fatalf("parseErrorModel(levenshtein-1.9) = %v, %v, want non-nil factory", factory, err)
	}
	aut, err := factory("cat")
	if err != nil || aut == nil {
		t.Fatalf("factory(cat) = %v, %v", aut, err)
	}
}

func TestParseErrorModelRejectsBadLevenshteinBound(t *testing.T) {
	if _, err := parseErrorModel("levenshtein-notanumber"); err == nil {
		t.Fatal("expected an error for a non-numeric levenshtein bound")
	}
}
