// Package messages centralizes user-facing CLI strings.
package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "confdeck"
	// RootShort is the short description for the root command.
	RootShort = "Media player configuration package manager"
	RootLong  = "confdeck installs, verifies, and removes configuration packages for mpv and VLC,\nwith automatic backups and transactional rollback."

	RootFlagConfig  = "Path to the settings file"
	RootFlagVerbose = "Increase log verbosity (repeatable)"

	InstallUse   = "install <package>"
	InstallShort = "Install a configuration package"
	InstallLong  = "Install a package from the package repository into the player's configuration\ndirectory. Files already present in the target are snapshotted first; a failed\ninstall is rolled back completely."

	InstallFlagTarget = "Target configuration directory (auto-detected when omitted)"
	InstallFlagDryRun = "Show what would change without touching the filesystem"

	InstallDryRunHeaderFmt = "Would install %s %s to %s:\n"
	InstallSuccessFmt      = "Installed %s %s to %s (%d files)\n"
	InstallSnapshotFmt     = "Snapshot taken: %s\n"

	UninstallUse   = "uninstall <package>"
	UninstallShort = "Remove an installed package"

	UninstallFlagDryRun  = "Show what would be removed without touching the filesystem"
	UninstallFlagYes     = "Skip the confirmation prompt"
	UninstallConfirmFmt  = "Remove %s and its %d installed files?"
	UninstallAborted     = "uninstall aborted"
	UninstallNeedsYes    = "uninstall confirmation requires an interactive terminal; re-run with --yes"
	UninstallDryRunFmt   = "Would remove %d files of %s:\n"
	UninstallSuccessFmt  = "Removed %s (%d files)\n"
	UninstallSnapshotFmt = "Snapshot taken before removal: %s\n"

	VerifyUse   = "verify <package>"
	VerifyShort = "Check an installed package against its record"

	VerifyFlagDiff   = "Show drift previews for files that changed since install"
	VerifyOKFmt      = "%s verifies clean\n"
	VerifyProblemFmt = "  %s\n"
	VerifyIssuesFmt  = "%s has %d problems:\n"
	VerifyDriftFmt   = "%s drifted from its installed content:\n"
	VerifyNoDrift    = "No drift detected.\n"

	ListUse   = "list"
	ListShort = "List available packages"

	ListEmpty        = "No packages found.\n"
	ListInstalledTag = "installed"

	InfoUse   = "info <package>"
	InfoShort = "Show package details"

	ReportUse   = "report"
	ReportShort = "Summarize installations, snapshots, and active profiles"

	BackupUse   = "backup"
	BackupShort = "Manage snapshots"

	BackupListUse      = "list"
	BackupListShort    = "List snapshots, newest first"
	BackupListEmpty    = "No snapshots found.\n"
	BackupFlagPackage  = "Only snapshots for this package"
	BackupRestoreUse   = "restore <snapshot-id>"
	BackupRestoreShort = "Restore a snapshot's files"
	BackupFlagTarget   = "Restore into this directory instead of the snapshot's original target"
	BackupRestoredFmt  = "Restored %d files from %s\n"
	BackupDeleteUse    = "delete <snapshot-id>"
	BackupDeleteShort  = "Delete a snapshot"
	BackupDeletedFmt   = "Deleted snapshot %s\n"
	BackupRotateUse    = "rotate"
	BackupRotateShort  = "Prune old snapshots beyond the retention limit"
	BackupFlagKeep     = "How many snapshots to keep per package"
	BackupRotatedFmt   = "Pruned %d snapshots\n"

	ProfileUse   = "profile"
	ProfileShort = "Manage player profiles"

	ProfileListUse     = "list <player>"
	ProfileListShort   = "List profiles available for a player"
	ProfileListEmpty   = "No profiles available.\n"
	ProfileSwitchUse   = "switch <player> <profile>"
	ProfileSwitchShort = "Switch a player to a profile"
	ProfileSwitchedFmt = "Switched %s to profile %s\n"
	ProfileCurrentUse  = "current <player>"
	ProfileCurrentShort = "Show a player's active profile"
	ProfileCurrentFmt   = "%s\n"
	ProfileNoneRecorded = "No profile recorded.\n"

	DetectUse   = "detect [player]"
	DetectShort = "Show player configuration directories"

	DetectFoundFmt     = "%s: %s\n"
	DetectNotFoundFmt  = "%s: not found (candidates: %s)\n"
	DetectCandidateFmt = "  candidate: %s\n"

	VersionTemplate = "{{.Version}}\n"
)
