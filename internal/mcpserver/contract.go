package mcpserver

// ErrorCodes documents the violation codes returned by validate_value.
const ErrorCodes = `# Violation codes

Validation stops at the first violation and reports exactly one.

| code | meaning |
|---|---|
| invalid_type | value has the wrong JSON type (integer requires a whole number) |
| invalid_enum | value is not one of the enum literals |
| out_of_range | minimum, maximum or multipleOf violated |
| invalid_length | string length or array length out of bounds |
| pattern | string does not match pattern |
| invalid_format | string fails its format (email, uuid, ipv4, uri, date-time, emoji) |
| required | a required key is missing (reported at the object) |
| too_few_properties | object has fewer keys than minProperties |
| union_mismatch | value matches no anyOf member |
| missing_value | null where the schema is not nullable |

maxProperties is never enforced.
`
