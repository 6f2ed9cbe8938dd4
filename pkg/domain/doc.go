/*
Package domain contains the core contracts of the paged form controller.

It defines what a page is, how request values are read, how navigation intent
is expressed, and which errors the controller can raise. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Page: One segment of a larger multi-step form, with its own fields and validation.
  - RequestReader: The key/value view of an inbound request.
  - Intent: The user's requested movement (advance/retreat), computed once per request.
  - Namespace: The request-key prefix a page receives when it is registered.
*/
package domain
