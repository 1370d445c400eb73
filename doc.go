// Package componente provides the building blocks for a VUCEM component
// service: a CRUD resource lifecycle with pluggable extension points, JWT
// issuance and validation, and HTTP controllers ready to mount on fiber.
//
// Extension points:
//   - RegistroExtensiones keeps a per-subject registry of PuntoExtension
//     handlers ordered by priority. Registration is safe under concurrency
//     and readers always observe a complete, sorted snapshot.
//   - Extensions run sequentially and in isolation. A handler that fails or
//     panics is logged and skipped; the remaining handlers still run. A
//     handler may veto a mutation by returning false or a Veto value.
//
// Resource lifecycle:
//   - RecursoService drives create, update, and delete over the Recursos
//     repository. Every mutation validates the payload, consults the
//     extension registry, and stamps audit fields via the configured
//     Auditor. Creation publishes a RecursoCreado event through the
//     Publicador; publish failures are logged and never roll back the write.
//
// Tokens:
//   - TokenService signs HS256 tokens with standard claims and validates
//     them fail-closed. The signing key resolves once from configuration:
//     a well-formed secret of at least 32 bytes is used as-is, anything
//     shorter is replaced by generated material, and resolution errors fall
//     back to an ephemeral random key so the service never signs with an
//     empty secret.
package componente
