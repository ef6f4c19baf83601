package emit

// runtimePrelude is the fixed runtime-helper protocol, inlined
// once into every emitted unit: mock-aware calls, list-operation
// helpers, and the test-result builders the emitted `__sigil_tests`
// array calls into. Grounded on `internal/_teacher_tokgo`'s
// buffer-per-declaration assembly (this prelude is itself one more
// buffer, written first, ahead of every emitted declaration).
const runtimePrelude = `const __sigil_mock_table = new Map();

function __sigil_preview(value) {
  try {
    return JSON.stringify(value);
  } catch (e) {
    return String(value);
  }
}

function __sigil_diff_hint(expected, actual) {
  if (Array.isArray(expected) && Array.isArray(actual)) {
    if (expected.length !== actual.length) {
      return { kind: "array_length", expected: expected.length, actual: actual.length };
    }
    for (let i = 0; i < expected.length; i++) {
      if (__sigil_preview(expected[i]) !== __sigil_preview(actual[i])) {
        return { kind: "array_first_diff", index: i };
      }
    }
    return null;
  }
  if (expected && actual && typeof expected === "object" && typeof actual === "object") {
    const ek = Object.keys(expected).sort();
    const ak = Object.keys(actual).sort();
    if (JSON.stringify(ek) !== JSON.stringify(ak)) {
      return { kind: "object_keys", expected: ek, actual: ak };
    }
    for (const k of ek) {
      if (__sigil_preview(expected[k]) !== __sigil_preview(actual[k])) {
        return { kind: "object_field", field: k };
      }
    }
    return null;
  }
  return null;
}

function __sigil_test_bool_result(value) {
  if (value === true) {
    return { status: "pass" };
  }
  return { status: "fail", failure: { kind: "assert_false" } };
}

function __sigil_test_compare_result(op, left, right) {
  let ok;
  switch (op) {
    case "=": ok = __sigil_preview(left) === __sigil_preview(right); break;
    case "≠": ok = __sigil_preview(left) !== __sigil_preview(right); break;
    case "<": ok = left < right; break;
    case ">": ok = left > right; break;
    case "≤": ok = left <= right; break;
    case "≥": ok = left >= right; break;
    default: ok = false;
  }
  if (ok) {
    return { status: "pass" };
  }
  return {
    status: "fail",
    failure: {
      kind: "comparison_mismatch",
      operator: op,
      actual: __sigil_preview(left),
      expected: __sigil_preview(right),
      diffHint: __sigil_diff_hint(right, left),
    },
  };
}

async function __sigil_call(name, fn, args) {
  const stack = __sigil_mock_table.get(name);
  const impl = (stack && stack.length > 0) ? stack[stack.length - 1] : fn;
  return await impl(...args);
}

async function __sigil_with_mock(name, replacement, body) {
  const stack = __sigil_mock_table.get(name) || [];
  if (stack.length > 0) {
    throw new Error("with_mock: nested mock of `" + name + "` within the same task is not allowed");
  }
  stack.push(replacement);
  __sigil_mock_table.set(name, stack);
  try {
    return await body();
  } finally {
    stack.pop();
  }
}

async function __sigil_with_mock_extern(ns, member, replacement, body) {
  const original = ns[member];
  if (typeof original === "function" && original.length !== replacement.length) {
    throw new Error("with_mock: replacement for `" + member + "` has a different arity than the extern it overrides");
  }
  ns[member] = replacement;
  try {
    return await body();
  } finally {
    ns[member] = original;
  }
}

async function __sigil_map(list, fn) {
  const out = [];
  for (const x of list) {
    out.push(await fn(x));
  }
  return out;
}

async function __sigil_filter(list, fn) {
  const out = [];
  for (const x of list) {
    if (await fn(x)) {
      out.push(x);
    }
  }
  return out;
}

async function __sigil_fold(list, fn, init) {
  let acc = init;
  for (const x of list) {
    acc = await fn(acc, x);
  }
  return acc;
}

function __sigil_concat(a, b) {
  if (Array.isArray(a)) {
    return a.concat(b);
  }
  return a + b;
}

function __sigil_len(x) {
  return x.length;
}
`
