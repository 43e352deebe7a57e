// Command voterlistctl runs and administers a voter registry.
//
// The registry keeps enumerable role membership guarded by admin roles, and
// a vote right flag per account that only holders of the admin role can
// change.
//
// # Quick Start
//
//	# Generate a token signing key
//	export VOTERLIST_TOKEN_KEY=$(voterlistctl token-key generate)
//
//	# In memory
//	voterlistctl server --deployer 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266
//
//	# In PostgreSQL
//	export DATABASE_URL=postgres://...
//	voterlistctl db migrate
//	voterlistctl deploy 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266
//	VOTERLIST_STORE=postgres voterlistctl server
//
//	# Operate directly on the database
//	voterlistctl voter add 0x70997970c51812dc3a010c7d01b50e0d17dc79c8 \
//	  --as 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - VOTERLIST_TOKEN_KEY: Base64-encoded key of at least 256 bits for bearer tokens
//   - AUDIT_DATABASE_URL: optional database for the audit messages table
//   - VOTERLIST_CONFIG_PATH: directory holding voterlist.yml
//   - VOTERLIST_OPERATOR: default for --as
//   - PORT, BIND_ADDRESS: server listen address
package main
