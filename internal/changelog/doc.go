// Package changelog turns merge history into release changelog fragments.
//
// This package implements:
//   - a strict grammar for pull request merge commits (ParseMergeCommit)
//   - mining one repository's merges since the previous release (Miner)
//   - rendering mined sections as GitHub markdown, Debian changelog
//     entries and RPM spec %changelog entries (Render)
//
// History access goes through the History interface so the miner can be
// exercised without a real repository; *git.Repo satisfies it.
package changelog
