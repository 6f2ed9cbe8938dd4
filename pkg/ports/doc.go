/*
Package ports defines the driven ports (interfaces) of the paged form library.

These interfaces decouple form processing from external implementations, so
completed forms can be kept in memory, on disk or in Redis.

# Key Interfaces

  - SubmissionStore: persists completed forms and lists them per form.

RunSubmissionStoreContract is the shared test suite every adapter runs.
*/
package ports
