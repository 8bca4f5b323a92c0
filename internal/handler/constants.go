// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSearch is the search route.
	RouteSearch = "/search"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteCategoryID is the category browse route pattern.
	RouteCategoryID = "/category/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteSignup is the signup route.
	RouteSignup = "/signup"
	// RouteForgotPassword is the password reset route.
	RouteForgotPassword = "/forgot-password"

	// RouteFavorites is the favorites page route.
	RouteFavorites = "/favorites"

	// RouteAdmin is the admin area prefix.
	RouteAdmin = "/admin"
	// RouteTips is the tips admin route.
	RouteTips = "/tips"
	// RouteCategories is the categories admin route.
	RouteCategories = "/categories"
	// RouteUsers is the users admin route.
	RouteUsers = "/users"

	// RouteTipsID is the tips ID route pattern.
	RouteTipsID = RouteTips + RouteParamID
	// RouteCategoriesID is the categories ID route pattern.
	RouteCategoriesID = RouteCategories + RouteParamID
	// RouteUsersID is the users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)
