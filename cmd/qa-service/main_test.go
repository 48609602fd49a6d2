package main

import "testing"

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.Name() != name {
			t.Fatalf("found %q, want %q", cmd.Name(), name)
		}
	}

	if root.RunE == nil {
		t.Fatal("root command must serve by default")
	}
}

func TestMigrateSQLite(t *testing.T) {
	t.Setenv("QA_DATABASE__DRIVER", "sqlite")
	t.Setenv("QA_DATABASE__SQLITE_PATH", t.TempDir()+"/qa.db")
	t.Setenv("QA_OBSERVABILITY__LOGGING__LEVEL", "error")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
