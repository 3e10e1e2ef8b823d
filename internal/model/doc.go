// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types shared by the clinic front end.
//
// # Key Types
//
//   - Role: Closed role enumeration (Admin, Client, Doctor)
//   - User: Display projection of the signed-in user
//   - Request/response DTOs for the clinic REST API
//
// # Usage
//
//	role, err := model.ParseRole("client") // model.RoleClient
//	user := model.NewUser(email, role, claims)
package model
